package caida

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Emeline-1/bgpsim"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadASRelationships(t *testing.T) {
	content := "# CAIDA AS relationships\n" +
		"1|2|-1\n" +
		"2|3|0\n" +
		"\n" +
		"3|4|-1\n"
	path := writeTempFile(t, "as-rel.txt", content)

	g, err := LoadASRelationships(path)
	if err != nil {
		t.Fatalf("LoadASRelationships: %v", err)
	}

	rel, ok := g.RelationshipAt(1, 2)
	if !ok || rel != bgpsim.P2C {
		t.Errorf("RelationshipAt(1,2) = %v, %v; want P2C, true", rel, ok)
	}
	rel, ok = g.RelationshipAt(2, 3)
	if !ok || rel != bgpsim.P2P {
		t.Errorf("RelationshipAt(2,3) = %v, %v; want P2P, true", rel, ok)
	}
	rel, ok = g.RelationshipAt(3, 4)
	if !ok || rel != bgpsim.P2C {
		t.Errorf("RelationshipAt(3,4) = %v, %v; want P2C, true", rel, ok)
	}
}

func TestLoadASRelationshipsCollectsBadLines(t *testing.T) {
	content := "1|2|-1\n" +
		"garbage line without pipes\n" +
		"3|4|7\n"
	path := writeTempFile(t, "as-rel.txt", content)

	g, err := LoadASRelationships(path)
	if g == nil {
		t.Fatal("expected a partially built graph even with bad lines")
	}
	loadErr, ok := err.(*LoadError)
	if !ok {
		t.Fatalf("expected *LoadError, got %v (%T)", err, err)
	}
	if len(loadErr.BadLines) != 2 {
		t.Fatalf("expected 2 bad lines, got %d: %v", len(loadErr.BadLines), loadErr.BadLines)
	}
	if !g.HasEdge(1, 2) {
		t.Fatal("the well-formed line must still have been applied")
	}
}
