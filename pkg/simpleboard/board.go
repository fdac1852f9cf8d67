package simpleboard

import (
	"context"
	"sync"
	"time"
)

// ResolveBoardID maps a human-facing board code to the currently valid
// numeric board id: the first board whose code matches and whose use flag is
// active wins. The second return value is false when no active board
// matches; callers must treat that as "feature unavailable" and skip any
// dependent post fetches rather than issuing requests with a zero id.
func ResolveBoardID(code string, boards []Board) (int64, bool) {
	for _, b := range boards {
		if b.Num == code && b.Use == UseYes {
			return b.ID, true
		}
	}
	return 0, false
}

// BoardResolver resolves board codes against live server state. By default
// every Resolve call refetches the full board list, trading one extra round
// trip per page load for the guarantee that a board activated or retired on
// the server is reflected immediately. WithBoardCacheTTL relaxes that: the
// list is reused for at most the given duration, so a change is still
// visible within one page load of the TTL expiring.
type BoardResolver struct {
	reader ReaderClient
	ttl    time.Duration

	mu      sync.Mutex
	boards  []Board
	fetched time.Time
}

// BoardResolverOption configures a BoardResolver.
type BoardResolverOption func(*BoardResolver)

// WithBoardCacheTTL enables short-lived caching of the board list. A zero
// duration keeps the default refetch-every-call behavior.
func WithBoardCacheTTL(ttl time.Duration) BoardResolverOption {
	return func(r *BoardResolver) {
		r.ttl = ttl
	}
}

// NewBoardResolver creates a resolver over the given reader client.
func NewBoardResolver(reader ReaderClient, opts ...BoardResolverOption) *BoardResolver {
	r := &BoardResolver{reader: reader}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the active board id for code. found is false when no
// active board matches; err is non-nil only for transport failures.
func (r *BoardResolver) Resolve(ctx context.Context, code string) (id int64, found bool, err error) {
	boards, err := r.list(ctx)
	if err != nil {
		return 0, false, err
	}
	id, found = ResolveBoardID(code, boards)
	return id, found, nil
}

// Board returns the full board record for code, applying the same selection
// rule as Resolve.
func (r *BoardResolver) Board(ctx context.Context, code string) (*Board, bool, error) {
	boards, err := r.list(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range boards {
		if boards[i].Num == code && boards[i].Use == UseYes {
			b := boards[i]
			return &b, true, nil
		}
	}
	return nil, false, nil
}

func (r *BoardResolver) list(ctx context.Context) ([]Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ttl > 0 && r.boards != nil && time.Since(r.fetched) < r.ttl {
		return r.boards, nil
	}

	boards, err := r.reader.ListBoards(ctx)
	if err != nil {
		return nil, err
	}
	r.boards = boards
	r.fetched = time.Now()
	return boards, nil
}
