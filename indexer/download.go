package indexer

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	bencode "github.com/jackpal/bencode-go"

	"github.com/tracknab/tracknab/indexer/search"
	"github.com/tracknab/tracknab/indexer/source"
)

func (r *Runner) downloadsNeedResolution() bool {
	_, ok := r.failingSearchFields["download"]
	return ok
}

// Open streams the payload behind a search result, resolving the
// download link through the details page when the row didn't carry one.
func (r *Runner) Open(item *search.ResultItem) (*ResponseProxy, error) {
	if err := r.session.ensure(); err != nil {
		return nil, err
	}
	sourceLink := item.SourceLink
	if sourceLink == "" || r.downloadsNeedResolution() {
		downloadField := r.failingSearchFields["download"]
		result, err := r.contentFetcher.Fetch(source.NewFetchOptions(item.Link))
		if err != nil {
			return nil, err
		}
		if html, ok := result.(*source.HTMLFetchResult); ok {
			page := source.NewDOMScrapeItem(html.DOM)
			downloadLink, err := downloadField.Block.MatchText(page)
			if err != nil {
				return nil, fmt.Errorf("couldn't resolve a download link from %s: %v", item.Link, err)
			}
			sourceLink = downloadLink
		}
	}
	if sourceLink == "" {
		return nil, errors.New("result has no download link")
	}

	fullURL, err := r.urlResolver.Resolve(sourceLink)
	if err != nil {
		return nil, err
	}

	fetcher := r.contentFetcher.Clone()
	responsePx, pipeW := NewResponseProxy()
	go func() {
		defer pipeW.Close()
		data, err := fetcher.Download(fullURL.String())
		if err != nil {
			r.logger.WithError(err).Error("Error downloading")
			responsePx.ContentLengthChan <- 0
			return
		}
		responsePx.ContentLengthChan <- int64(len(data))
		if _, err = io.Copy(pipeW, bytes.NewReader(data)); err != nil {
			r.logger.WithError(err).Error("Error piping download")
		}
	}()
	return responsePx, nil
}

func (r *Runner) Download(urlStr string) (*ResponseProxy, error) {
	return r.Open(&search.ResultItem{SourceLink: urlStr})
}

// ResolveMagnet gives a magnet link for a result, deriving one from the
// torrent file when the site doesn't serve magnets itself.
func (r *Runner) ResolveMagnet(item *search.ResultItem) (string, error) {
	if item.MagnetLink != "" {
		return item.MagnetLink, nil
	}
	if err := r.session.ensure(); err != nil {
		return "", err
	}
	fullURL, err := r.urlResolver.Resolve(item.SourceLink)
	if err != nil {
		return "", err
	}
	data, err := r.contentFetcher.Clone().Download(fullURL.String())
	if err != nil {
		return "", err
	}
	return MagnetFromTorrent(data, item.Title)
}

// MagnetFromTorrent computes the magnet uri of a bencoded torrent file.
func MagnetFromTorrent(data []byte, displayName string) (string, error) {
	decoded, err := bencode.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("not a valid torrent file: %v", err)
	}
	dict, ok := decoded.(map[string]interface{})
	if !ok {
		return "", errors.New("torrent file has no top level dictionary")
	}
	info, ok := dict["info"]
	if !ok {
		return "", errors.New("torrent file has no info dictionary")
	}
	var buf bytes.Buffer
	if err := bencode.Marshal(&buf, info); err != nil {
		return "", err
	}
	hash := sha1.Sum(buf.Bytes())
	magnet := fmt.Sprintf("magnet:?xt=urn:btih:%s", strings.ToUpper(hex.EncodeToString(hash[:])))
	if displayName != "" {
		magnet += "&dn=" + url.QueryEscape(displayName)
	}
	return magnet, nil
}
