package hashfuncs

import "testing"

func TestShardOfIsStable(t *testing.T) {
	keys := []string{"the", "cow", "jumped", "over", "moon"}
	for _, k := range keys {
		a := ShardOf([]byte(k), 4)
		b := ShardOf([]byte(k), 4)
		if a != b {
			t.Errorf("shard of %s changed: %d vs %d", k, a, b)
		}
		if a < 0 || a >= 4 {
			t.Errorf("shard of %s out of range: %d", k, a)
		}
	}
}

func TestShardOfSingleClient(t *testing.T) {
	if ShardOf([]byte("anything"), 1) != 0 {
		t.Error("single client must always be shard 0")
	}
	if ShardOf([]byte("anything"), 0) != 0 {
		t.Error("no clients should map to shard 0")
	}
}

func TestHashersAgree(t *testing.T) {
	if (StringHasher{}).HashSum64("moon") != (ByteSliceHasher{}).HashSum64([]byte("moon")) {
		t.Error("string and byte slice hashers disagree")
	}
	if NameHash("moon") != (StringHasher{}).HashSum64("moon") {
		t.Error("NameHash should match StringHasher")
	}
	if (IntegerHasher[uint8]{}).HashSum64(7) != 7 {
		t.Error("integer hasher should be identity")
	}
}
