package internal

import (
	"fmt"
	"sort"

	"github.com/blevesearch/bleve"
)

// rrfK is the reciprocal-rank-fusion constant: contributions decay as
// 1/(rrfK+rank), so top ranks dominate without any score normalization.
const rrfK = 60

// KeywordIndex is a mem-only BM25 index over the same passages as the
// vector backend. Hybrid retrieval fuses its ranking with the vector
// ranking, which helps exact-term queries the embedder smears out.
type KeywordIndex struct {
	idx  bleve.Index
	byID map[string]Passage
}

type keywordDoc struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

func NewKeywordIndex(passages []Passage) (*KeywordIndex, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create keyword index: %w", err)
	}

	byID := make(map[string]Passage, len(passages))
	for _, p := range passages {
		byID[p.ID] = p
		if err := idx.Index(p.ID, keywordDoc{Text: p.Text, Source: p.Source}); err != nil {
			return nil, fmt.Errorf("index passage %s: %w", p.ID, err)
		}
	}

	return &KeywordIndex{idx: idx, byID: byID}, nil
}

func (ki *KeywordIndex) Search(q string, k int) ([]ScoredPassage, error) {
	query := bleve.NewMatchQuery(q)
	req := bleve.NewSearchRequestOptions(query, k*3, 0, false)

	res, err := ki.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	out := make([]ScoredPassage, 0, k)
	for _, hit := range res.Hits {
		p, ok := ki.byID[hit.ID]
		if !ok {
			continue
		}
		out = append(out, ScoredPassage{Passage: p, Score: float32(hit.Score)})
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

// fuseRRF merges two rankings by reciprocal-rank fusion. The result is
// deterministic: fused-score ties fall back to passage insertion order.
func fuseRRF(a, b []ScoredPassage, k int) []ScoredPassage {
	fused := make(map[string]*ScoredPassage)
	order := make(map[string]int)

	add := func(list []ScoredPassage) {
		for rank, sp := range list {
			entry, ok := fused[sp.Passage.ID]
			if !ok {
				cp := sp
				cp.Score = 0
				fused[sp.Passage.ID] = &cp
				order[sp.Passage.ID] = sp.Passage.Seq
				entry = fused[sp.Passage.ID]
			}
			entry.Score += 1.0 / float32(rrfK+rank+1)
		}
	}
	add(a)
	add(b)

	merged := make([]ScoredPassage, 0, len(fused))
	for _, sp := range fused {
		merged = append(merged, *sp)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return order[merged[i].Passage.ID] < order[merged[j].Passage.ID]
	})

	if k > 0 && k < len(merged) {
		merged = merged[:k]
	}
	return merged
}
