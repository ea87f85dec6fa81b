package raffle

import (
	"math/big"

	"fuelraffle/internal/pkg/merkle"
)

// WinnerIndex is the published selection function: sha256(root || seed)
// read as a big integer, reduced mod entryCount. Two independent parties
// with the same three inputs always agree on the index, which is the whole
// audit contract of the draw.
func WinnerIndex(merkleRoot, externalSeed string, entryCount int) int {
	if entryCount <= 0 {
		return 0
	}

	digest := merkle.Sum(merkleRoot + externalSeed)

	n := new(big.Int)
	n.SetString(digest, 16)
	n.Mod(n, big.NewInt(int64(entryCount)))

	return int(n.Int64())
}

// VerifyDraw recomputes the committed root from the persisted entry order
// and replays the winner selection. It needs nothing beyond the three
// published values plus the entry list, so a third party can run the same
// check offline.
func VerifyDraw(merkleRoot, externalSeed string, entries []Entry, recordedWinnerPointID string) (bool, int, error) {
	if len(entries) == 0 {
		return false, 0, ErrNoEntries
	}

	leaves := make([]string, len(entries))
	for i, e := range entries {
		leaves[i] = EntryLeaf(e)
	}
	recomputedRoot, err := merkle.Root(leaves)
	if err != nil {
		return false, 0, err
	}
	if recomputedRoot != merkleRoot {
		return false, 0, nil
	}

	idx := WinnerIndex(merkleRoot, externalSeed, len(entries))
	return entries[idx].PointID.String() == recordedWinnerPointID, idx, nil
}
