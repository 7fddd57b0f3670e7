package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mockingbird/internal/markdown"
)

func sampleIndex() *Index {
	x := NewIndex()
	x.Add("/b/", []markdown.Document{{ID: "one", Title: "One", Breadcrumb: "One", Body: "first"}})
	x.Add("/a/", []markdown.Document{
		{ID: "intro", Title: "Intro", Breadcrumb: "Intro", Body: "hello"},
		{ID: "more", Title: "More", Breadcrumb: "Intro > More", Body: "world"},
	})
	x.Add("/empty/", nil)
	return x
}

func TestIndex_RecordsOrderedByURL(t *testing.T) {
	recs := sampleIndex().Records()
	require.Len(t, recs, 3)
	require.Equal(t, "/a/", recs[0].URL)
	require.Equal(t, "intro", recs[0].ID)
	require.Equal(t, "more", recs[1].ID)
	require.Equal(t, "/b/", recs[2].URL)
}

func TestIndex_ConcurrentAdd(t *testing.T) {
	x := NewIndex()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			x.Add("/p/", []markdown.Document{{ID: "x"}, {ID: "y"}})
		}()
	}
	wg.Wait()
	require.Equal(t, 64, x.Len())
}

func TestJSONWriter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(context.Background(), JSONWriter{}, dir, sampleIndex()))

	data, err := os.ReadFile(filepath.Join(dir, "search-index.json"))
	require.NoError(t, err)
	var got []map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 3)
	require.Equal(t, map[string]string{
		"url": "/a/", "id": "intro", "title": "Intro", "breadcrumb": "Intro", "body": "hello",
	}, got[0])
}

func TestJSONWriter_EmptyIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(context.Background(), JSONWriter{}, dir, NewIndex()))
	data, err := os.ReadFile(filepath.Join(dir, "search-index.json"))
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestSQLiteWriter(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	// A second save replaces the first database.
	require.NoError(t, Save(ctx, SQLiteWriter{}, dir, sampleIndex()))
	require.NoError(t, Save(ctx, SQLiteWriter{}, dir, sampleIndex()))

	db, err := sql.Open("sqlite", filepath.Join(dir, "search-index.db"))
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&n))
	require.Equal(t, 3, n)

	var breadcrumb string
	require.NoError(t, db.QueryRow("SELECT breadcrumb FROM documents WHERE anchor = ?", "more").Scan(&breadcrumb))
	require.Equal(t, "Intro > More", breadcrumb)
}
