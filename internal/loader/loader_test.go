package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "records.json", `[
		{"publish_time": "2024-03-01T10:00:00Z", "sentiment_score": 0.4},
		{"published_at": "2024-03-02", "sentiment": -0.2},
		{"date": "2024-03-03", "score": 0.1}
	]`)

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	if records[0].PublishTime != "2024-03-01T10:00:00Z" || records[0].SentimentScore != 0.4 {
		t.Errorf("Record 0 wrong: %+v", records[0])
	}
	if records[1].PublishTime != "2024-03-02" || records[1].SentimentScore != -0.2 {
		t.Errorf("Aliased fields not recognized: %+v", records[1])
	}
	if records[2].PublishTime != "2024-03-03" || records[2].SentimentScore != 0.1 {
		t.Errorf("Aliased fields not recognized: %+v", records[2])
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "records.csv", "published_at,sentiment\n2024-03-01,0.4\n2024-03-02,-0.2\n")

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].PublishTime != "2024-03-01" || records[0].SentimentScore != 0.4 {
		t.Errorf("Record 0 wrong: %+v", records[0])
	}
	if records[1].SentimentScore != -0.2 {
		t.Errorf("Record 1 wrong: %+v", records[1])
	}
}

func TestLoadCSV_MissingColumns(t *testing.T) {
	path := writeFile(t, "bad.csv", "a,b\n1,2\n")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for CSV without recognized columns")
	}
}

func TestLoadCSV_InvalidScore(t *testing.T) {
	path := writeFile(t, "bad_score.csv", "date,score\n2024-03-01,abc\n")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for non-numeric score")
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "records.txt", "whatever")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
