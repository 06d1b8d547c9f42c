package internal

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xKoRx/echo-dwx/sdk/tracker"
	"github.com/xKoRx/echo-dwx/sdk/utils"
)

const (
	snapshotBucketName = "tracker_snapshot"
	metaBucketName     = "meta"
	savedAtKey         = "saved_at"
)

// SnapshotStore persiste el último valor de cada clave del tracker.
//
// Cada clave (_ticket, _positions, _orders) se guarda como un
// google.protobuf.Value serializado con protojson; no hay historial.
// El tracker entrega _ticket como string decimal, así que sobrevive exacto.
type SnapshotStore struct {
	db *bolt.DB
}

// OpenSnapshotStore abre (o crea) la base bbolt en path.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir snapshot path: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(snapshotBucketName)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(metaBucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

// Close cierra la base.
func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save reemplaza las claves presentes en snap en una única transacción.
// Las claves ausentes conservan su último valor guardado.
func (s *SnapshotStore) Save(snap tracker.Payload) error {
	encoded := make(map[string][]byte, len(snap))
	for _, key := range tracker.Keys() {
		raw, ok := snap[key.WireName()]
		if !ok {
			continue
		}
		value, err := structpb.NewValue(raw)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key.WireName(), err)
		}
		data, err := protojson.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key.WireName(), err)
		}
		encoded[key.WireName()] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotBucketName))
		for key, data := range encoded {
			if err := b.Put([]byte(key), data); err != nil {
				return err
			}
		}
		stamp := make([]byte, 8)
		binary.BigEndian.PutUint64(stamp, uint64(utils.NowUnixMilli()))
		return tx.Bucket([]byte(metaBucketName)).Put([]byte(savedAtKey), stamp)
	})
}

// Load retorna el snapshot guardado (vacío si nunca se guardó nada).
func (s *SnapshotStore) Load() (tracker.Payload, error) {
	snap := tracker.Payload{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotBucketName))
		for _, key := range tracker.Keys() {
			data := b.Get([]byte(key.WireName()))
			if len(data) == 0 {
				continue
			}
			var value structpb.Value
			if err := protojson.Unmarshal(data, &value); err != nil {
				return fmt.Errorf("decode %s: %w", key.WireName(), err)
			}
			snap[key.WireName()] = value.AsInterface()
		}
		return nil
	})
	return snap, err
}

// SavedAt retorna el instante del último Save.
func (s *SnapshotStore) SavedAt() (time.Time, bool, error) {
	var (
		at time.Time
		ok bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(metaBucketName)).Get([]byte(savedAtKey))
		if len(data) != 8 {
			return nil
		}
		at = utils.UnixMilliToTime(int64(binary.BigEndian.Uint64(data)))
		ok = true
		return nil
	})
	return at, ok, err
}
