package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadTOML(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.toml")

	type TestStruct struct {
		Name  string
		Age   int
		Email string
	}

	originalData := TestStruct{
		Name:  "John Doe",
		Age:   30,
		Email: "john@example.com",
	}

	err := SaveTOML(testFile, originalData)
	if err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loadedData := TestStruct{}
	undecoded, err := LoadTOML(testFile, &loadedData)
	if err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if len(undecoded) != 0 {
		t.Errorf("Expected no undecoded keys, got %v", undecoded)
	}

	if loadedData != originalData {
		t.Errorf("Expected %+v, got %+v", originalData, loadedData)
	}

	info, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestLoadTOMLNonExistent(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "nonexistent.toml")

	var data struct{ Name string }
	if _, err := LoadTOML(testFile, &data); err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
}

func TestLoadTOMLReportsUnknownKeys(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.toml")
	if err := os.WriteFile(testFile, []byte("name = \"x\"\ncolour = \"blue\"\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	var data struct {
		Name string `toml:"name"`
	}
	undecoded, err := LoadTOML(testFile, &data)
	if err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if len(undecoded) != 1 || undecoded[0] != "colour" {
		t.Errorf("Expected [colour], got %v", undecoded)
	}
}

func TestSaveTOMLCreatesDirectory(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "subdir", "test.toml")

	data := struct{ Name string }{Name: "Test"}
	if err := SaveTOML(testFile, data); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("File was not created")
	}
}
