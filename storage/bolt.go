package storage

import (
	"encoding/json"
	"path"
	"sort"

	"github.com/boltdb/bolt"

	"github.com/tracknab/tracknab/config"
	"github.com/tracknab/tracknab/indexer/search"
)

var resultsBucket = []byte("searchResults")

// BoltStorage is a ResultStore backed by a single bolt file. Results are
// keyed by their fingerprint, one nested bucket per site.
type BoltStorage struct {
	Database *bolt.DB
}

func NewBoltStorage(file string) (*BoltStorage, error) {
	if file == "" {
		file = defaultDBPath()
	}
	db, err := bolt.Open(file, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(resultsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStorage{Database: db}, nil
}

func defaultDBPath() string {
	return path.Join(config.GetCachePath("db"), "results.db")
}

func (b *BoltStorage) Close() error {
	return b.Database.Close()
}

func (b *BoltStorage) siteBucket(tx *bolt.Tx, site string, create bool) (*bolt.Bucket, error) {
	root := tx.Bucket(resultsBucket)
	if create {
		return root.CreateBucketIfNotExists([]byte(site))
	}
	return root.Bucket([]byte(site)), nil
}

// HandleResultDiscovery stores the result and reports whether it was seen
// before. A previously seen result with a changed publish date counts as an
// update, an unseen fingerprint as new.
func (b *BoltStorage) HandleResultDiscovery(item *search.ResultItem) (bool, bool, error) {
	if item.Fingerprint == "" {
		item.Fingerprint = search.GetResultFingerprint(item)
	}
	var isNew, isUpdate bool
	err := b.Database.Update(func(tx *bolt.Tx) error {
		bucket, err := b.siteBucket(tx, item.Site, true)
		if err != nil {
			return err
		}
		key := []byte(item.Fingerprint)
		if existing := bucket.Get(key); existing == nil {
			isNew = true
		} else {
			var stored search.ResultItem
			if err := json.Unmarshal(existing, &stored); err != nil || !stored.PublishDate.Equal(item.PublishDate) {
				isUpdate = true
			}
		}
		if !isNew && !isUpdate {
			return nil
		}
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		return bucket.Put(key, data)
	})
	if err != nil {
		return false, false, err
	}
	item.SetState(isNew, isUpdate)
	return isNew, isUpdate, nil
}

func (b *BoltStorage) GetNewest(count int) ([]*search.ResultItem, error) {
	var items []*search.ResultItem
	err := b.Database.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(resultsBucket)
		return root.ForEach(func(site, value []byte) error {
			if value != nil {
				return nil
			}
			bucket := root.Bucket(site)
			return bucket.ForEach(func(_, data []byte) error {
				item := &search.ResultItem{}
				if err := json.Unmarshal(data, item); err != nil {
					return nil
				}
				items = append(items, item)
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishDate.After(items[j].PublishDate)
	})
	if count > 0 && len(items) > count {
		items = items[:count]
	}
	return items, nil
}

func (b *BoltStorage) Size() (int, error) {
	count := 0
	err := b.Database.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(resultsBucket)
		return root.ForEach(func(site, value []byte) error {
			if value != nil {
				return nil
			}
			count += root.Bucket(site).Stats().KeyN
			return nil
		})
	})
	return count, err
}
