package slr

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTableCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	dir := t.TempDir()
	path := filepath.Join(dir, "parens.json")
	if err := os.WriteFile(path, []byte(parensTable), 0644); err != nil {
		t.Fatal(err)
	}
	cache := NewTableCache()
	t1, err := cache.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	t2, err := cache.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if t1 != t2 {
		t.Errorf("expected cached table to be re-used")
	}
	// same content, different path and layout
	var doc Document
	if err = json.Unmarshal([]byte(parensTable), &doc); err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(doc)
	other := filepath.Join(dir, "other.json")
	if err = os.WriteFile(other, data, 0644); err != nil {
		t.Fatal(err)
	}
	t3, err := cache.Get(other)
	if err != nil {
		t.Fatal(err)
	}
	if t3 != t1 || cache.Len() != 1 {
		t.Errorf("expected identical documents to share one compiled table")
	}
	// changed file
	changed := strings.Replace(parensTable, `"ACC"`, `"ACC" , "ANY": "ACC"`, 1)
	if err = os.WriteFile(path, []byte(changed), 0644); err != nil {
		t.Fatal(err)
	}
	t4, err := cache.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if t4 == t1 || cache.Len() != 2 {
		t.Errorf("expected changed file to be re-compiled")
	}
	if _, err = cache.Get(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("expected error for missing table file")
	}
}

func TestFingerprint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	table := loadParens(t)
	h1, err := Fingerprint(table.Document())
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err = json.Unmarshal([]byte(parensTable), &doc); err != nil {
		t.Fatal(err)
	}
	h2, _ := Fingerprint(doc)
	if h1 != h2 {
		t.Errorf("expected decompiled table to have the fingerprint of its source")
	}
	data, err := json.Marshal(table.Document())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"ANY":"3"`) {
		t.Errorf("expected GOTO targets to be written as strings: %s", data)
	}
}
