// Package storage snapshots the cached entity lists to disk so the console
// backend can serve stale-but-visible data right after a restart.
package storage

import (
	"compress/gzip"
	"encoding/gob"
	"os"
	"path"

	"github.com/bluewave-labs/verifywise-sub000/pkg/common/jsoncompat"
	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

func init() {
	gob.Register(types.Record{})
	gob.Register([]any{})
	gob.Register(map[string]any{})
}

const (
	recordsFile = "records.gob.gz"
	prefsFile   = "prefs.json"
)

type DiskStorage struct {
	Prefix string
	Path   string
}

func NewDiskStorage(prefix, basePath string) *DiskStorage {
	dir := path.Join(basePath, prefix)
	if err := os.MkdirAll(dir, 0755); err != nil && !os.IsExist(err) {
		return &DiskStorage{Prefix: prefix, Path: basePath}
	}
	return &DiskStorage{Prefix: prefix, Path: basePath}
}

// GetFileName returns the final and the temporary file path; writes go to the
// temporary file and are renamed into place.
func (d *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(d.Path, d.Prefix, name)
	return fileName, fileName + ".tmp"
}

// SaveRecordLists writes every cached entity list in one gzipped gob
// snapshot. Null fields from upstream json are dropped; gob cannot carry
// them and a missing field reads back the same as a null one.
func (d *DiskStorage) SaveRecordLists(lists map[string][]types.Record) error {
	clean := make(map[string][]types.Record, len(lists))
	for entity, records := range lists {
		cleanRecords := make([]types.Record, len(records))
		for i, r := range records {
			cr := make(types.Record, len(r))
			for k, v := range r {
				if v != nil {
					cr[k] = v
				}
			}
			cleanRecords[i] = cr
		}
		clean[entity] = cleanRecords
	}
	return d.SaveGzippedGob(clean, recordsFile)
}

func (d *DiskStorage) LoadRecordLists() (map[string][]types.Record, error) {
	lists := make(map[string][]types.Record)
	if err := d.LoadGzippedGob(&lists, recordsFile); err != nil {
		return nil, err
	}
	return lists, nil
}

// SavePreferences keeps a json copy of the table preferences for deployments
// without redis.
func (d *DiskStorage) SavePreferences(prefs map[string]types.TablePreference) error {
	return d.SaveJson(prefs, prefsFile)
}

func (d *DiskStorage) LoadPreferences() (map[string]types.TablePreference, error) {
	prefs := make(map[string]types.TablePreference)
	if err := d.LoadJson(&prefs, prefsFile); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (d *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := d.GetFileName(name)
	payload, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmpFileName, payload, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadJson(out any, name string) error {
	fileName, _ := d.GetFileName(name)
	data, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}
	return jsoncompat.Unmarshal(data, out)
}

func (d *DiskStorage) SaveGzippedGob(data any, name string) error {
	fileName, tmpFileName := d.GetFileName(name)
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	defer file.Close()
	zipWriter := gzip.NewWriter(file)
	enc := gob.NewEncoder(zipWriter)
	if err := enc.Encode(data); err != nil {
		zipWriter.Close()
		return err
	}
	if err := zipWriter.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadGzippedGob(out any, name string) error {
	fileName, _ := d.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()
	return gob.NewDecoder(zipReader).Decode(out)
}
