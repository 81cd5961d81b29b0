package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nvkalinin/bangla-calendar/log"
	"github.com/nvkalinin/bangla-calendar/store"
	"go.etcd.io/bbolt"
)

const calBucket = "cal"

// Bolt хранит все данные в одном бакете (const calBucket).
// По ключу /<y>/<m> лежит JSON со всеми днями месяца, включая бенгальские даты.
//
// Клиенты обычно запрашивают один месяц (сетка на экране), поэтому месяц - единица хранения:
// запрос года - это обход курсором 12 соседних ключей.
type Bolt struct {
	db *bbolt.DB
}

func NewBolt(file string) (*Bolt, error) {
	b, err := bbolt.Open(file, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("cannot open bolt store: %w", err)
	}
	log.Printf("[DEBUG] store/bolt opened %s successfully", file)

	return &Bolt{
		db: b,
	}, nil
}

func (b *Bolt) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("cannot close bolt store: %w", err)
	}
	log.Printf("[DEBUG] store/bolt closed successfully")
	return nil
}

func monthKey(y int, mon time.Month) []byte {
	return []byte(fmt.Sprintf("/%d/%d", y, mon))
}

func (b *Bolt) FindDay(y int, mon time.Month, d int) (*store.Day, bool) {
	days, ok := b.FindMonth(y, mon)
	if !ok {
		return nil, false
	}

	day, ok := days[d]
	if !ok {
		return nil, false
	}

	return &day, true
}

func (b *Bolt) FindMonth(y int, mon time.Month) (d store.Days, ok bool) {
	_ = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(calBucket))
		if bucket == nil {
			return nil
		}

		key := monthKey(y, mon)
		daysJson := bucket.Get(key)
		log.Printf("[DEBUG] store/bolt get key=%s len=%d", key, len(daysJson))
		if daysJson == nil {
			return nil
		}

		if err := json.Unmarshal(daysJson, &d); err != nil {
			d = nil
			log.Printf("[WARN] store/bolt invalid month calendar at %s: %v", key, err)
			return nil
		}

		ok = true
		return nil
	})
	return
}

func (b *Bolt) FindYear(y int) (m store.Months, ok bool) {
	_ = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(calBucket))
		if bucket == nil {
			return nil
		}

		m = make(store.Months, 12)

		// Ключи в bolt отсортированы, поэтому все месяцы года лежат подряд после prefix.
		prefix := []byte(fmt.Sprintf("/%d/", y))
		c := bucket.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			log.Printf("[DEBUG] store/bolt cursor is at key=%s len=%d", k, len(v))

			monNum, err := strconv.Atoi(string(bytes.TrimPrefix(k, prefix)))
			if err != nil || monNum < 1 || monNum > 12 {
				log.Printf("[WARN] store/bolt invalid month key: %s", k)
				continue
			}

			var d store.Days
			if err := json.Unmarshal(v, &d); err != nil {
				log.Printf("[WARN] store/bolt invalid month calendar at %s: %v", k, err)
				continue
			}
			m[time.Month(monNum)] = d
		}

		ok = len(m) > 0
		if !ok {
			m = nil
		}
		return nil
	})
	return
}

func (b *Bolt) PutYear(y int, data store.Months) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(calBucket))
		if err != nil {
			return fmt.Errorf("bolt cannot create bucket '%s': %w", calBucket, err)
		}

		for mon, days := range data {
			key := monthKey(y, mon)

			val, err := json.Marshal(days)
			if err != nil {
				return fmt.Errorf("bolt cannot marshal %s: %w", key, err)
			}

			log.Printf("[DEBUG] store/bolt put key=%s len=%d", key, len(val))
			if err := bucket.Put(key, val); err != nil {
				return fmt.Errorf("bolt cannot put %s: %w", key, err)
			}
		}
		return nil
	})
}

// Backup пишет в w согласованный снимок файла БД.
func (b *Bolt) Backup(w io.Writer) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		log.Printf("[DEBUG] store/bolt writing backup len=%d", tx.Size())
		_, err := tx.WriteTo(w)
		return err
	})
}
