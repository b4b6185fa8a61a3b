package schema

import (
	"context"
	"sync"
)

type fakeCatalog struct {
	mu          sync.Mutex
	name        string
	collections map[string][]ExistingIndex
	calls       []string

	listErr        error
	createCollErr  map[string]error
	createIndexErr map[string]error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		name:           DefaultDatabase,
		collections:    map[string][]ExistingIndex{},
		createCollErr:  map[string]error{},
		createIndexErr: map[string]error{},
	}
}

func (f *fakeCatalog) Database() string { return f.name }

func (f *fakeCatalog) CollectionNames(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.collections))
	for n := range f.collections {
		names = append(names, n)
	}
	return names, nil
}

func (f *fakeCatalog) CreateCollection(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "collection:"+name)
	if err := f.createCollErr[name]; err != nil {
		return err
	}
	f.collections[name] = []ExistingIndex{{Name: PrimaryIndexName, Keys: []KeyField{Asc("_id")}}}
	return nil
}

func (f *fakeCatalog) Indexes(ctx context.Context, collection string) ([]ExistingIndex, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ExistingIndex, len(f.collections[collection]))
	copy(out, f.collections[collection])
	return out, nil
}

func (f *fakeCatalog) CreateIndex(ctx context.Context, collection string, idx IndexSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "index:"+collection+"."+idx.Name)
	if err := f.createIndexErr[idx.Name]; err != nil {
		return err
	}
	f.collections[collection] = append(f.collections[collection], ExistingIndex{Name: idx.Name, Keys: idx.Keys})
	return nil
}

func (f *fakeCatalog) addIndex(collection string, idx ExistingIndex) {
	if _, ok := f.collections[collection]; !ok {
		f.collections[collection] = []ExistingIndex{{Name: PrimaryIndexName, Keys: []KeyField{Asc("_id")}}}
	}
	f.collections[collection] = append(f.collections[collection], idx)
}
