package vault

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), DefaultFileName))
}

func writeVaultFile(t *testing.T, s *Store, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), FileMode))
}

func TestLoad_FirstRun(t *testing.T) {
	s := testStore(t)

	v, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())

	_, statErr := os.Stat(s.Path())
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "load must not create the vault file")
}

func TestLoad_Corrupted(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "not json"},
		{name: "empty file", content: ""},
		{name: "top-level array", content: `[]`},
		{name: "missing list", content: `{}`},
		{name: "null list", content: `{"list":null}`},
		{name: "list is object", content: `{"list":{}}`},
		{name: "entry missing password", content: `{"list":[{"site_app":"a","username":"b"}]}`},
		{name: "entry missing site_app", content: `{"list":[{"username":"b","password":"c"}]}`},
		{name: "entry is null", content: `{"list":[null]}`},
		{name: "wrong field type", content: `{"list":[{"site_app":1,"username":"b","password":"c"}]}`},
		{name: "truncated", content: `{"list":[{"site_app":"a","username":"b","pass`},
		{name: "trailing garbage", content: `{"list":[]} junk`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t)
			writeVaultFile(t, s, tt.content)

			v, err := s.Load()
			assert.Nil(t, v)
			assert.ErrorIs(t, err, ErrVaultCorrupted)
		})
	}
}

func TestLoad_ReadError(t *testing.T) {
	s := New(t.TempDir()) // a directory cannot be read as a file

	_, err := s.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVaultCorrupted)
}

func TestLoad_CompactFile(t *testing.T) {
	s := testStore(t)
	writeVaultFile(t, s, `{"list":[{"site_app":"github","username":"octo","password":"a1!B2@c3#D4$"},{"site_app":"mail","username":"me","password":"Zz9(Zz9)Zz9{"}]}`)

	entries, err := s.ListAll()
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		NewEntry("github", "octo", "a1!B2@c3#D4$"),
		NewEntry("mail", "me", "Zz9(Zz9)Zz9{"),
	}, entries)
}

func TestLoad_IgnoresUnknownFields(t *testing.T) {
	s := testStore(t)
	writeVaultFile(t, s, `{"list":[{"site_app":"a","username":"b","password":"c","note":"x"}],"extra":true}`)

	entries, err := s.ListAll()
	require.NoError(t, err)
	assert.Equal(t, []Entry{NewEntry("a", "b", "c")}, entries)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		vault *Vault
	}{
		{name: "empty", vault: &Vault{Entries: []Entry{}}},
		{name: "single", vault: &Vault{Entries: []Entry{NewEntry("example.com", "alice", "XXXXXXXXXXXX")}}},
		{name: "duplicates keep order", vault: &Vault{Entries: []Entry{
			NewEntry("a", "one", "p1"),
			NewEntry("b", "two", "p2"),
			NewEntry("a", "three", "p3"),
		}}},
		{name: "special characters", vault: &Vault{Entries: []Entry{
			NewEntry("<site> & \"co\"", "ünïcødé", "!@#$%^&*(){}:;"),
			NewEntry("", "", ""),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.vault)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.vault, got)
		})
	}
}

func TestEncode_EmptyListNotNull(t *testing.T) {
	data, err := Encode(&Vault{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"list": []`)
}

func TestEncode_NoHTMLEscaping(t *testing.T) {
	data, err := Encode(&Vault{Entries: []Entry{NewEntry("a&b", "u", "<p>")}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"site_app": "a&b"`)
	assert.Contains(t, string(data), `"password": "<p>"`)
}

func TestAppendAndPersist(t *testing.T) {
	s := testStore(t)

	first := NewEntry("example.com", "alice", strings.Repeat("X", 12))
	require.NoError(t, s.AppendAndPersist(first))

	entries, err := s.ListAll()
	require.NoError(t, err)
	assert.Equal(t, []Entry{first}, entries)

	second := NewEntry("example.org", "bob", "Y1!y2@Y3#y4$")
	require.NoError(t, s.AppendAndPersist(second))

	entries, err = s.ListAll()
	require.NoError(t, err)
	assert.Equal(t, []Entry{first, second}, entries)
}

func TestAppendAndPersist_GrowsByOne(t *testing.T) {
	s := testStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendAndPersist(NewEntry("site", "user", "pass")))
	}

	before, err := s.Load()
	require.NoError(t, err)

	e := NewEntry("new", "newuser", "newpass")
	require.NoError(t, s.AppendAndPersist(e))

	after, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, before.Len()+1, after.Len())
	assert.Equal(t, e, after.Entries[after.Len()-1])
	assert.Equal(t, before.Entries, after.Entries[:before.Len()])
}

func TestAppendAndPersist_CorruptedFileUntouched(t *testing.T) {
	s := testStore(t)
	writeVaultFile(t, s, "not json")

	err := s.AppendAndPersist(NewEntry("a", "b", "c"))
	require.ErrorIs(t, err, ErrVaultCorrupted)

	data, readErr := os.ReadFile(s.Path())
	require.NoError(t, readErr)
	assert.Equal(t, "not json", string(data))
}

func TestAppendAndPersist_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", DefaultFileName)
	s := New(path)

	require.NoError(t, s.AppendAndPersist(NewEntry("a", "b", "c")))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestAppendAndPersist_FileLayout(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.AppendAndPersist(NewEntry("a", "b", "c")))

	dirEntries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	var names []string
	for _, de := range dirEntries {
		names = append(names, de.Name())
	}
	assert.ElementsMatch(t, []string{DefaultFileName, DefaultFileName + LockSuffix}, names,
		"no temporary files may be left behind")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(s.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(FileMode), info.Mode().Perm())
	}
}

func TestAppendAndPersist_ConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	const writers = 4
	const perWriter = 10

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// Separate stores share nothing but the file, like separate processes.
			s := New(path)
			for i := 0; i < perWriter; i++ {
				if err := s.AppendAndPersist(NewEntry("site", "writer", "pass")); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("append failed: %v", err)
	}

	entries, err := New(path).ListAll()
	require.NoError(t, err)
	assert.Len(t, entries, writers*perWriter, "no append may be lost")
}

func TestFind(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.AppendAndPersist(NewEntry("github", "first", "p1")))
	require.NoError(t, s.AppendAndPersist(NewEntry("gitlab", "other", "p2")))
	require.NoError(t, s.AppendAndPersist(NewEntry("github", "second", "p3")))

	e, err := s.Find("github")
	require.NoError(t, err)
	assert.Equal(t, "first", e.Username)

	all, err := s.FindAll("github")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Username)
	assert.Equal(t, "second", all[1].Username)

	_, err = s.Find("GitHub")
	assert.ErrorIs(t, err, ErrEntryNotFound, "lookup is case-sensitive")

	none, err := s.FindAll("bitbucket")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFind_EmptyVault(t *testing.T) {
	s := testStore(t)
	_, err := s.Find("anything")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestFind_CorruptedVault(t *testing.T) {
	s := testStore(t)
	writeVaultFile(t, s, `{"list":`)

	_, err := s.Find("a")
	assert.ErrorIs(t, err, ErrVaultCorrupted)
	assert.NotErrorIs(t, err, ErrEntryNotFound)
}

func TestVaultLabels(t *testing.T) {
	v := &Vault{}
	v.Append(NewEntry("b", "u", "p"))
	v.Append(NewEntry("a", "u", "p"))
	v.Append(NewEntry("b", "u", "p"))
	assert.Equal(t, []string{"b", "a", "b"}, v.Labels())
}

func TestCheckDiskSpace(t *testing.T) {
	s := testStore(t)
	info, err := s.CheckDiskSpace()
	require.NoError(t, err)
	assert.Greater(t, info.Total, uint64(0))
	assert.LessOrEqual(t, info.Available, info.Total)
	assert.GreaterOrEqual(t, info.UsedPct, 0)
	assert.LessOrEqual(t, info.UsedPct, 100)
}
