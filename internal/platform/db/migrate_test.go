package db

import (
	"testing"
	"testing/fstest"
	"time"
)

func TestMigrator_Load(t *testing.T) {
	files := fstest.MapFS{
		"002_auth_user.sql": {Data: []byte("CREATE TABLE auth_user (id SERIAL PRIMARY KEY);")},
		"010_later.sql":     {Data: []byte("SELECT 10;")},
		"001_core.sql":      {Data: []byte("CREATE TABLE endereco (id SERIAL PRIMARY KEY);")},
		"readme.sql":        {Data: []byte("-- no version")},
		"abc_invalid.sql":   {Data: []byte("-- non-numeric")},
		"notes.txt":         {Data: []byte("not sql")},
	}

	migrations, err := NewMigrator(nil, files, "").Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	want := []int{1, 2, 10}
	for i, v := range want {
		if migrations[i].Version != v {
			t.Errorf("migration[%d]: expected version %d, got %d", i, v, migrations[i].Version)
		}
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("expected 001_core.sql first, got %s", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE endereco (id SERIAL PRIMARY KEY);" {
		t.Errorf("unexpected SQL: %s", migrations[0].SQL)
	}
}

func TestMigrator_LoadDuplicateVersion(t *testing.T) {
	files := fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"01_b.sql":  {Data: []byte("SELECT 1;")},
	}
	if _, err := NewMigrator(nil, files, "").Load(); err == nil {
		t.Error("expected error for duplicate version")
	}
}

func TestMigrator_LoadEmpty(t *testing.T) {
	migrations, err := NewMigrator(nil, fstest.MapFS{}, "").Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("expected no migrations, got %d", len(migrations))
	}
}

func TestNewMigrator_DefaultSchema(t *testing.T) {
	m := NewMigrator(nil, fstest.MapFS{}, "")
	if m.schema != "public" {
		t.Errorf("expected public schema, got %s", m.schema)
	}
	if got := m.table(); got != `"public"."schema_migrations"` {
		t.Errorf("unexpected table identifier %s", got)
	}
}

func TestPendingAndStatus(t *testing.T) {
	migrations := []Migration{
		{Version: 1, Name: "001_core.sql"},
		{Version: 2, Name: "002_auth_user.sql"},
		{Version: 3, Name: "003_extra.sql"},
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	applied := map[int]time.Time{1: at}

	pending := Pending(migrations, applied)
	if len(pending) != 2 || pending[0].Version != 2 || pending[1].Version != 3 {
		t.Errorf("unexpected pending set: %+v", pending)
	}

	statuses := BuildStatus(migrations, applied)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(at) {
		t.Errorf("expected 001 applied at %s, got %+v", at, statuses[0])
	}
	if statuses[1].Applied || statuses[1].AppliedAt != nil {
		t.Errorf("expected 002 pending, got %+v", statuses[1])
	}
}

func TestValidSchema(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"public", true},
		{"clinica_2", true},
		{"_private", true},
		{"", false},
		{"Upper", false},
		{"1starts_digit", false},
		{"drop;table", false},
		{"with space", false},
	}
	for _, tt := range tests {
		if got := ValidSchema(tt.name); got != tt.want {
			t.Errorf("ValidSchema(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
