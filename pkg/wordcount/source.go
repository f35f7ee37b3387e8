package wordcount

import "strings"

var Sentences = []string{
	"the cow jumped over the moon",
	"the man went to the store and bought some candy",
	"four score and seven years ago",
	"how many apples can you eat",
	"to be or not to be the person",
}

// FixedBatchSource cycles over a fixed list of sentences, batchSize at a
// time. The batch of a txid is always the same, which is what makes a
// replay recompute the same values.
type FixedBatchSource struct {
	sentences []string
	batchSize int
}

func NewFixedBatchSource(sentences []string, batchSize int) *FixedBatchSource {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &FixedBatchSource{sentences: sentences, batchSize: batchSize}
}

// Batch returns the sentences of txid, txids start at 1.
func (s *FixedBatchSource) Batch(txid uint64) []string {
	if len(s.sentences) == 0 {
		return nil
	}
	start := int((txid - 1) * uint64(s.batchSize) % uint64(len(s.sentences)))
	batch := make([]string, 0, s.batchSize)
	for i := 0; i < s.batchSize; i++ {
		batch = append(batch, s.sentences[(start+i)%len(s.sentences)])
	}
	return batch
}

func Split(sentence string) []string {
	return strings.Fields(sentence)
}

// CountWords groups the words of sentences, keeping the order in which words
// first appear.
func CountWords(sentences []string) ([]string, map[string]int64) {
	counts := make(map[string]int64)
	var words []string
	for _, sentence := range sentences {
		for _, w := range Split(sentence) {
			if _, ok := counts[w]; !ok {
				words = append(words, w)
			}
			counts[w]++
		}
	}
	return words, counts
}
