package indexer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/indexer/formatting"
	"github.com/tracknab/tracknab/indexer/search"
	"github.com/tracknab/tracknab/indexer/source"
	"github.com/tracknab/tracknab/indexer/utils"
)

// extractItem builds one normalized result from a scraped row.
func (r *Runner) extractItem(rowIdx int, selection source.RawScrapeItem) (*search.ResultItem, error) {
	row := map[string]string{}
	nonFilteredRow := map[string]string{}

	for _, item := range r.definition.Search.Fields {
		r.logger.
			WithFields(logrus.Fields{"row": rowIdx, "block": item.Block.String()}).
			Debugf("Processing field %q", item.Field)

		val, err := item.Block.MatchText(selection)
		if item.Field == "title" {
			if valRaw, rawErr := item.Block.MatchRawText(selection); rawErr == nil {
				nonFilteredRow[item.Field] = valRaw
			}
		}
		if err != nil {
			r.logger.
				WithFields(logrus.Fields{"error": err, "row": rowIdx, "selector": item.Field}).
				Debug("Couldn't process selector")
			r.failingSearchFields[item.Field] = item
			continue
		}
		row[item.Field] = val
	}

	// pattern fields may reference other fields of the same row
	for _, item := range r.definition.Search.Fields {
		val := row[item.Field]
		if !strings.Contains(val, "{{") && item.Block.Pattern == "" {
			continue
		}
		updated, err := applyTemplate("result_template", val, row)
		if err != nil {
			continue
		}
		if filtered, err := item.Block.FilterText(updated); err == nil && filtered != "" {
			updated = filtered
		}
		row[item.Field] = updated
	}

	if _, ok := row["title"]; !ok {
		return nil, fmt.Errorf("row %d has no title", rowIdx)
	}

	item := &search.ResultItem{
		Site:        r.definition.Site,
		Indexer:     r.getIndexer(),
		ExtraFields: map[string]interface{}{},
	}

	var seeders, leechers int
	for key, val := range row {
		if err := r.populateItemField(item, key, val, rowIdx, &seeders, &leechers); err != nil {
			return nil, err
		}
	}
	item.SetSwarm(seeders, leechers)

	if title, ok := nonFilteredRow["title"]; ok && item.ShortTitle == "" {
		item.ShortTitle = title
	}
	if item.GUID == "" {
		if item.Link != "" {
			item.GUID = item.Link
		} else {
			item.GUID = uuid.New().String()
		}
	}

	if r.hasDateHeader() {
		dateVal, err := r.extractDateHeader(selection)
		if err != nil {
			return nil, err
		}
		date, err := utils.ParseFuzzyTime(dateVal, time.Now(), true)
		if err != nil {
			return nil, err
		}
		item.PublishDate = date
	}

	return item, nil
}

func (r *Runner) populateItemField(item *search.ResultItem, key string, val string, rowIdx int, seeders, leechers *int) error {
	switch key {
	case "id":
		item.GUID = val
	case "title":
		item.Title = val
	case "description":
		item.Description = val
	case "details", "comments":
		resolved, err := r.urlResolver.Resolve(val)
		if err != nil {
			return fmt.Errorf("row %d has unparseable url %q in %s", rowIdx, val, key)
		}
		item.Comments = resolved.String()
		if item.GUID == "" {
			item.GUID = resolved.String()
		}
	case "download":
		resolved, err := r.urlResolver.Resolve(val)
		if err != nil {
			return fmt.Errorf("row %d has unparseable url %q in %s", rowIdx, val, key)
		}
		item.SourceLink = resolved.String()
		item.Link = resolved.String()
		if strings.HasPrefix(val, "magnet:") {
			item.IsMagnet = true
			item.MagnetLink = val
		}
	case "link":
		resolved, err := r.urlResolver.Resolve(val)
		if err != nil {
			return fmt.Errorf("row %d has unparseable url %q in %s", rowIdx, val, key)
		}
		item.Link = resolved.String()
	case "magnet":
		item.MagnetLink = val
		item.IsMagnet = true
	case "banner":
		item.Banner = val
	case "size":
		item.Size = formatting.SizeStrToBytes(val)
	case "seeders":
		count, err := utils.CoerceInt(val)
		if err != nil {
			return err
		}
		*seeders = count
	case "leechers":
		count, err := utils.CoerceInt(val)
		if err != nil {
			return err
		}
		*leechers = count
	case "grabs":
		count, err := utils.CoerceInt(val)
		if err != nil {
			return err
		}
		item.Grabs = count
	case "files":
		count, err := utils.CoerceInt(val)
		if err != nil {
			return err
		}
		item.Files = count
	case "date":
		date, err := parseExtractedDate(val)
		if err != nil {
			return err
		}
		item.PublishDate = date
	case "category":
		item.LocalCategoryID = val
	case "categoryname":
		item.LocalCategoryName = val
	case "imdbid":
		item.IMDBID = val
	case "tvdbid":
		item.TVDBID = val
	case "tmdbid":
		item.TMDBID = val
	case "rageid":
		item.TVRageID = val
	case "author":
		item.Author = val
	case "minimumratio":
		ratio, err := utils.CoerceFloat(val)
		if err != nil {
			return err
		}
		item.MinimumRatio = ratio
	case "minimumseedtime":
		seconds, err := utils.CoerceInt64(val)
		if err != nil {
			return err
		}
		item.MinimumSeedTime = time.Duration(seconds) * time.Second
	case "downloadvolumefactor":
		factor, err := utils.CoerceFloat(val)
		if err != nil {
			return err
		}
		item.DownloadVolumeFactor = factor
	case "uploadvolumefactor":
		factor, err := utils.CoerceFloat(val)
		if err != nil {
			return err
		}
		item.UploadVolumeFactor = factor
	default:
		item.SetField(key, val)
	}
	return nil
}

// parseExtractedDate accepts either the normalized form the date filters
// emit or a raw site string as a fallback.
func parseExtractedDate(val string) (time.Time, error) {
	if t, err := time.Parse(time.RFC1123Z, val); err == nil {
		return t.UTC(), nil
	}
	return utils.ParseFuzzyTime(val, time.Now(), true)
}
