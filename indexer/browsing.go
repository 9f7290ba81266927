package indexer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sp0x/surf"
	"github.com/sp0x/surf/browser"
	"go.zoe.im/surferua"
	"golang.org/x/net/proxy"

	"github.com/tracknab/tracknab/indexer/source/web"
)

func (r *Runner) createTransport() (http.RoundTripper, error) {
	var t http.Transport
	var custom bool

	if proxyAddr, isset := os.LookupEnv("SOCKS_PROXY"); isset {
		r.logger.
			WithFields(logrus.Fields{"addr": proxyAddr}).
			Debug("Using SOCKS5 proxy")

		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("can't connect to the proxy %s: %v", proxyAddr, err)
		}

		dc := dialer.(interface {
			DialContext(ctx context.Context, network, addr string) (net.Conn, error)
		})

		t.DialContext = dc.DialContext
		custom = true
	}

	if _, isset := os.LookupEnv("TLS_INSECURE"); isset {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		custom = true
	}

	if !custom {
		return &http.Transport{
			Dial: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).Dial,
			TLSHandshakeTimeout: 5 * time.Second,
		}, nil
	}

	return &t, nil
}

func createContentFetcher(r *Runner) *web.Fetcher {
	browsr := surf.NewBrowser()
	userAgent := surferua.New().Desktop().Chrome().String()
	browsr.SetUserAgent(userAgent)
	browsr.SetEncoding(r.definition.Encoding)
	browsr.SetAttribute(browser.SendReferer, true)
	browsr.SetAttribute(browser.MetaRefreshHandling, true)
	browsr.SetRateLimit(r.definition.RateLimit)

	transport, err := r.createTransport()
	if err != nil {
		panic(err)
	}
	if r.opts.Transport != nil {
		transport = r.opts.Transport
	}
	browsr.SetTransport(transport)

	return web.NewContentFetcher(browsr, r.connectivityTester, web.Options{
		Delay:     time.Duration(r.definition.RateLimit) * time.Millisecond,
		UserAgent: userAgent,
		CacheTTL:  time.Duration(r.definition.CacheTTL) * time.Second,
	})
}
