package torznab

type Info struct {
	ID          string
	Title       string
	Description string
	Link        string
	Language    string
	Category    string
}

func (i Info) GetID() string    { return i.ID }
func (i Info) GetTitle() string { return i.Title }
