package listctl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rshade/pokedex/internal/catalog"
)

const (
	fakePageSize = 20
	fakeTotal    = 60
)

var errFakeDown = errors.New("catalog down")

//nolint:gochecknoglobals // Test fixture.
var fakeNames = map[int]string{1: "bulbasaur", 25: "pikachu", 26: "raichu", 35: "clefairy", 52: "meowth"}

func fakeRef(id int) catalog.EntryRef {
	name, ok := fakeNames[id]
	if !ok {
		name = fmt.Sprintf("entry%d", id)
	}
	return catalog.EntryRef{Name: name, URL: fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", id)}
}

// fakeCatalog serves fakeTotal entries in pages addressed by "page/N".
type fakeCatalog struct {
	mu          sync.Mutex
	pageCalls   []string
	searchCalls []string
	pageErr     error
	holds       map[string]chan struct{}
	started     chan string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		holds:   make(map[string]chan struct{}),
		started: make(chan string, 64),
	}
}

// hold blocks calls for key (a cursor or search query) until release.
func (f *fakeCatalog) hold(key string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[key] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeCatalog) wait(ctx context.Context, key string) {
	f.mu.Lock()
	ch := f.holds[key]
	f.mu.Unlock()
	select {
	case f.started <- key:
	default:
	}
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
		}
	}
}

// drain discards start notifications already delivered.
func (f *fakeCatalog) drain() {
	for {
		select {
		case <-f.started:
		default:
			return
		}
	}
}

func (f *fakeCatalog) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageErr = err
}

func (f *fakeCatalog) pageCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pageCalls)
}

func (f *fakeCatalog) searchCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchCalls)
}

func (f *fakeCatalog) FetchPage(ctx context.Context, cursor string) (*catalog.Page, error) {
	f.mu.Lock()
	f.pageCalls = append(f.pageCalls, cursor)
	err := f.pageErr
	f.mu.Unlock()

	f.wait(ctx, cursor)
	if err != nil {
		return nil, err
	}

	n := 0
	if cursor != "" {
		if _, scanErr := fmt.Sscanf(cursor, "page/%d", &n); scanErr != nil {
			return nil, &catalog.TransportError{Op: "fetch page", URL: cursor, Err: catalog.ErrNotFound}
		}
	}

	page := &catalog.Page{Count: fakeTotal}
	for id := n*fakePageSize + 1; id <= (n+1)*fakePageSize && id <= fakeTotal; id++ {
		page.Results = append(page.Results, fakeRef(id))
	}
	if (n+1)*fakePageSize < fakeTotal {
		page.Next = fmt.Sprintf("page/%d", n+1)
	}
	return page, nil
}

func (f *fakeCatalog) SearchByNameOrID(ctx context.Context, query string) []catalog.EntryRef {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	f.mu.Unlock()

	f.wait(ctx, "search:"+strings.TrimSpace(query))

	all := make([]catalog.EntryRef, 0, fakeTotal)
	for id := 1; id <= fakeTotal; id++ {
		all = append(all, fakeRef(id))
	}
	return catalog.FilterEntries(all, query, catalog.DefaultPolicy())
}
