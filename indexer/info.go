package indexer

import "io"

type Info interface {
	GetID() string
	GetTitle() string
	GetLanguage() string
	GetLink() string
}

type IndexerInfo struct {
	ID       string
	Title    string
	Language string
	Link     string
}

func (i IndexerInfo) GetID() string       { return i.ID }
func (i IndexerInfo) GetTitle() string    { return i.Title }
func (i IndexerInfo) GetLanguage() string { return i.Language }
func (i IndexerInfo) GetLink() string     { return i.Link }

// ResponseProxy streams a download while its size is still being learned.
type ResponseProxy struct {
	Reader            io.ReadCloser
	ContentLengthChan chan int64
}

func NewResponseProxy() (*ResponseProxy, *io.PipeWriter) {
	pipeR, pipeW := io.Pipe()
	return &ResponseProxy{
		Reader:            pipeR,
		ContentLengthChan: make(chan int64, 1),
	}, pipeW
}
