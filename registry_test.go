package reportgen

// Notes:
// - name validation: empty names, separators, traversal
// - tier precedence: disk authoritative over the record store
// - store fallback: document parsed, stored title injected
// - memoization: repeat lookups skip tiers, Save invalidates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTemplateStore is an in-memory TemplateStore that counts lookups.
type fakeTemplateStore struct {
	records map[string]*StoredTemplate
	calls   int
	err     error
}

func (f *fakeTemplateStore) GetByTitle(_ context.Context, title string) (*StoredTemplate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records[title], nil
}

var _ TemplateStore = (*fakeTemplateStore)(nil)

func storedDoc(t *testing.T, tpl *Template) []byte {
	t.Helper()
	data, err := tpl.MarshalDocument()
	require.NoError(t, err)
	return data
}

// ---------------------------------------------------------------------------
// TestRegistry_NameValidation
// ---------------------------------------------------------------------------

func TestRegistry_NameValidation(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(t.TempDir(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		template string
		wantErr  error
	}{
		{name: "empty", template: "", wantErr: ErrEmptyName},
		{name: "forward slash", template: "a/b", wantErr: ErrNameTraversal},
		{name: "backslash", template: `a\b`, wantErr: ErrNameTraversal},
		{name: "dotdot", template: "..", wantErr: ErrNameTraversal},
		{name: "embedded dotdot", template: "a..b", wantErr: ErrNameTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := reg.GetByName(ctx, tt.template)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = reg.Save(DefaultProjectTemplate(), tt.template)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// TestRegistry_SaveAndGet
// ---------------------------------------------------------------------------

func TestRegistry_SaveAndGet(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(t.TempDir(), nil, nil)
	ctx := context.Background()

	tpl := NewTemplate("Weekly", "", nil)
	tpl.AddSection(NewSection("Status", "{{status}}", 1))

	path, err := reg.Save(tpl, "weekly")
	require.NoError(t, err)
	assert.FileExists(t, path)

	got, err := reg.GetByName(ctx, "weekly")
	require.NoError(t, err)
	assert.Equal(t, tpl.ToMarkdown(), got.ToMarkdown())
}

func TestRegistry_SaveNilTemplate(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(t.TempDir(), nil, nil)
	_, err := reg.Save(nil, "x")
	assert.ErrorIs(t, err, ErrNilTemplate)
}

func TestRegistry_NotFound(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(t.TempDir(), &fakeTemplateStore{}, nil)

	_, err := reg.GetByName(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Contains(t, err.Error(), `"nope"`)
}

// ---------------------------------------------------------------------------
// TestRegistry_TierPrecedence
// ---------------------------------------------------------------------------

func TestRegistry_DiskBeatsStore(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	diskTpl := NewTemplate("From Disk", "", nil)
	storeTpl := NewTemplate("From Store", "", nil)
	store := &fakeTemplateStore{records: map[string]*StoredTemplate{
		"shadowed": {ID: "1", Title: "shadowed", Document: storedDoc(t, storeTpl)},
	}}

	reg := NewRegistry(dir, store, nil)
	_, err := reg.Save(diskTpl, "shadowed")
	require.NoError(t, err)

	got, err := reg.GetByName(context.Background(), "shadowed")
	require.NoError(t, err)
	assert.Equal(t, "From Disk", got.Title)
	assert.Zero(t, store.calls, "disk hit must not consult the store")
}

func TestRegistry_StoreFallback(t *testing.T) {
	t.Parallel()

	tpl := NewTemplate("Original Title", "desc", nil)
	tpl.AddSection(NewSection("S", "c", 1))
	store := &fakeTemplateStore{records: map[string]*StoredTemplate{
		"monthly": {ID: "1", Title: "monthly", Document: storedDoc(t, tpl)},
	}}

	reg := NewRegistry(t.TempDir(), store, nil)
	got, err := reg.GetByName(context.Background(), "monthly")
	require.NoError(t, err)

	// The stored record's title wins over the document's own title.
	assert.Equal(t, "monthly", got.Title)
	assert.Len(t, got.Sections, 1)
	assert.Equal(t, 1, store.calls)
}

func TestRegistry_StoreError(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("db locked")
	reg := NewRegistry(t.TempDir(), &fakeTemplateStore{err: sentinel}, nil)

	_, err := reg.GetByName(context.Background(), "x")
	assert.ErrorIs(t, err, sentinel)
}

// ---------------------------------------------------------------------------
// TestRegistry_Memoization
// ---------------------------------------------------------------------------

func TestRegistry_Memoization(t *testing.T) {
	t.Parallel()

	tpl := NewTemplate("T", "", nil)
	store := &fakeTemplateStore{records: map[string]*StoredTemplate{
		"memo": {ID: "1", Title: "memo", Document: storedDoc(t, tpl)},
	}}
	reg := NewRegistry(t.TempDir(), store, nil)
	ctx := context.Background()

	first, err := reg.GetByName(ctx, "memo")
	require.NoError(t, err)
	second, err := reg.GetByName(ctx, "memo")
	require.NoError(t, err)

	assert.Same(t, first, second, "repeat lookup should come from the memo")
	assert.Equal(t, 1, store.calls, "memoized lookup must not hit the store again")
}

func TestRegistry_SaveInvalidates(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(t.TempDir(), nil, nil)
	ctx := context.Background()

	v1 := NewTemplate("Version One", "", nil)
	_, err := reg.Save(v1, "doc")
	require.NoError(t, err)

	got, err := reg.GetByName(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "Version One", got.Title)

	v2 := NewTemplate("Version Two", "", nil)
	_, err = reg.Save(v2, "doc")
	require.NoError(t, err)

	got, err = reg.GetByName(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "Version Two", got.Title, "Save must invalidate the memo entry")
}

func TestRegistry_MemoBounded(t *testing.T) {
	t.Parallel()

	store := &fakeTemplateStore{records: map[string]*StoredTemplate{}}
	tpl := NewTemplate("T", "", nil)
	for i := 0; i < memoCapacity+1; i++ {
		name := fmt.Sprintf("tpl-%02d", i)
		store.records[name] = &StoredTemplate{ID: name, Title: name, Document: storedDoc(t, tpl)}
	}

	reg := NewRegistry(t.TempDir(), store, nil)
	ctx := context.Background()

	for i := 0; i < memoCapacity+1; i++ {
		_, err := reg.GetByName(ctx, fmt.Sprintf("tpl-%02d", i))
		require.NoError(t, err)
	}
	calls := store.calls

	// The oldest entry was evicted, so looking it up again hits the store.
	_, err := reg.GetByName(ctx, "tpl-00")
	require.NoError(t, err)
	assert.Equal(t, calls+1, store.calls)

	// The newest is still memoized.
	_, err = reg.GetByName(ctx, fmt.Sprintf("tpl-%02d", memoCapacity))
	require.NoError(t, err)
	assert.Equal(t, calls+1, store.calls)
}
