package cart

import (
	"fmt"
	"sync/atomic"
)

var lineSeq atomic.Uint64

// newLineID builds "<productID>-<portionID>-<seq>". seq grows for the
// life of the process, so two lines never share an ID even when added in
// the same instant.
func newLineID(productID, portionID string) string {
	return fmt.Sprintf("%s-%s-%d", productID, portionID, lineSeq.Add(1))
}
