package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseJSON(t *testing.T) {
	raw := []byte(`{
		"inventory": [{"AppName": "App Alpha", "Environment": "Prod", "Rack": "B12"}],
		"knowledgeBase": [{"Error": "Disk full", "Solution": "Rotate logs", "ManagerContact": "Jordan Reyes"}]
	}`)

	data, err := Parse("upload.json", raw)
	require.NoError(t, err)

	require.Len(t, data.Inventory, 1)
	assert.Equal(t, "App Alpha", data.Inventory[0].Field("AppName"))
	assert.Equal(t, "B12", data.Inventory[0].Field("Rack"), "extra columns are carried along")
	require.Len(t, data.KnowledgeBase, 1)
	assert.Equal(t, "Jordan Reyes", data.KnowledgeBase[0].Field("ManagerContact"))
	assert.False(t, data.IsDefault)
}

func TestParseJSONMissingSections(t *testing.T) {
	data, err := Parse("upload.json", []byte(`{"inventory": []}`))
	require.NoError(t, err)
	assert.Empty(t, data.Inventory)
	assert.NotNil(t, data.KnowledgeBase)
	assert.Empty(t, data.KnowledgeBase)
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := Parse("upload.json", []byte(`{"inventory": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON file")
}

func TestParseUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"notes.txt", "data.csv", "archive.zip", "noextension"} {
		_, err := Parse(name, []byte("whatever"))
		assert.ErrorIs(t, err, ErrUnsupportedFileType, "file %q", name)
	}
}

func buildWorkbook(t *testing.T, sheets map[string][][]any, order []string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for rowIdx, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbookKeywordRouting(t *testing.T) {
	raw := buildWorkbook(t, map[string][][]any{
		"Notes": {
			{"Anything"},
			{"ignored by routing"},
		},
		"Server Inventory": {
			{"AppName", "Environment", "CPU"},
			{"App Alpha", "Prod", "16 vCPU"},
			{"Beta Service", "Dev", "2 vCPU"},
		},
		"KB Articles": {
			{"Error", "Solution", "ManagerContact"},
			{"Disk full", "Rotate logs", "Jordan Reyes"},
		},
	}, []string{"Notes", "Server Inventory", "KB Articles"})

	data, err := Parse("records.xlsx", raw)
	require.NoError(t, err)

	require.Len(t, data.Inventory, 2)
	assert.Equal(t, "App Alpha", data.Inventory[0].Field("AppName"))
	assert.Equal(t, "16 vCPU", data.Inventory[0].Field("CPU"))
	require.Len(t, data.KnowledgeBase, 1)
	assert.Equal(t, "Rotate logs", data.KnowledgeBase[0].Field("Solution"))
	assert.Empty(t, data.RawText)
}

func TestParseWorkbookPositionalFallback(t *testing.T) {
	raw := buildWorkbook(t, map[string][][]any{
		"Servers": {
			{"AppName", "Environment"},
			{"App Alpha", "Test"},
		},
		"Fixes": {
			{"Error", "Solution"},
			{"Login fails", "Reset the session cache"},
		},
	}, []string{"Servers", "Fixes"})

	data, err := Parse("records.xlsx", raw)
	require.NoError(t, err)

	require.Len(t, data.Inventory, 1, "first sheet falls back to inventory")
	assert.Equal(t, "App Alpha", data.Inventory[0].Field("AppName"))
	require.Len(t, data.KnowledgeBase, 1, "second sheet falls back to knowledge base")
	assert.Equal(t, "Reset the session cache", data.KnowledgeBase[0].Field("Solution"))
}

func TestParseWorkbookSingleUnnamedSheet(t *testing.T) {
	raw := buildWorkbook(t, map[string][][]any{
		"Sheet1": {
			{"AppName"},
			{"App Alpha"},
		},
	}, []string{"Sheet1"})

	data, err := Parse("records.xlsx", raw)
	require.NoError(t, err)

	require.Len(t, data.Inventory, 1)
	assert.Empty(t, data.KnowledgeBase, "no second sheet means no knowledge base")
}

func TestParseWorkbookRaggedRows(t *testing.T) {
	raw := buildWorkbook(t, map[string][][]any{
		"Inventory": {
			{"AppName", "Environment", "CPU"},
			{"App Alpha", "Prod"},                          // short row
			{"Beta Service", "Dev", "2 vCPU", "extra"},     // long row
		},
	}, []string{"Inventory"})

	data, err := Parse("records.xlsx", raw)
	require.NoError(t, err)

	require.Len(t, data.Inventory, 2)
	assert.Equal(t, "", data.Inventory[0].Field("CPU"))
	assert.Equal(t, "2 vCPU", data.Inventory[1].Field("CPU"))
	_, hasExtra := data.Inventory[1]["extra"]
	assert.False(t, hasExtra, "cells beyond the header width are dropped")
}

func TestParseCorruptWorkbook(t *testing.T) {
	_, err := Parse("records.xlsx", []byte("this is not a zip archive"))
	require.Error(t, err)
}

func TestParseCorruptPDF(t *testing.T) {
	_, err := Parse("manual.pdf", []byte("%PDF-1.4 garbage"))
	require.Error(t, err)
}

func TestRecordField(t *testing.T) {
	r := Record{"AppName": "App Alpha", "Count": 3}
	assert.Equal(t, "App Alpha", r.Field("AppName"))
	assert.Equal(t, "3", r.Field("Count"))
	assert.Equal(t, "", r.Field("Missing"))
}

func TestDefaultData(t *testing.T) {
	data := DefaultData()

	assert.True(t, data.IsDefault)
	require.NotEmpty(t, data.Inventory)
	require.NotEmpty(t, data.KnowledgeBase)
	assert.Equal(t, "App Alpha", data.Inventory[0].Field("AppName"))
	for i, record := range data.KnowledgeBase {
		assert.NotEmpty(t, record.Field("Error"), "knowledge base record %d", i)
		assert.NotEmpty(t, record.Field("Solution"), "knowledge base record %d", i)
		assert.NotEmpty(t, record.Field("ManagerContact"), "knowledge base record %d", i)
	}
}

func TestHolderReplaceIsAtomic(t *testing.T) {
	holder := NewHolder(DefaultData())
	require.True(t, holder.Get().IsDefault)

	uploaded := &AppData{Inventory: []Record{{"AppName": "Gamma"}}, KnowledgeBase: []Record{}}
	holder.Replace(uploaded)

	got := holder.Get()
	assert.False(t, got.IsDefault)
	assert.Equal(t, "Gamma", got.Inventory[0].Field("AppName"))
}
