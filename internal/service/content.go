package service

import "context"

// ChunkSize is Telegram's maximum media-group size.
const ChunkSize = 10

// ContentStore persists the free-stuff pool.
type ContentStore interface {
	Add(ctx context.Context, fileID string, addedBy int64) error
	ListFileIDs(ctx context.Context) ([]string, error)
}

// ContentPool dispenses stored content as media-group-sized chunks.
type ContentPool struct {
	store ContentStore
}

func NewContentPool(store ContentStore) *ContentPool {
	return &ContentPool{store: store}
}

// Add appends an item to the pool, preserving insertion order.
func (p *ContentPool) Add(ctx context.Context, fileID string, addedBy int64) error {
	return p.store.Add(ctx, fileID, addedBy)
}

// Chunks returns the full pool partitioned into groups of at most ChunkSize,
// oldest first; the last chunk may be smaller. An empty pool yields zero
// chunks so the caller can report "nothing available" instead of sending
// silently nothing.
func (p *ContentPool) Chunks(ctx context.Context) ([][]string, error) {
	fileIDs, err := p.store.ListFileIDs(ctx)
	if err != nil {
		return nil, err
	}
	var chunks [][]string
	for len(fileIDs) > 0 {
		n := min(len(fileIDs), ChunkSize)
		chunks = append(chunks, fileIDs[:n])
		fileIDs = fileIDs[n:]
	}
	return chunks, nil
}
