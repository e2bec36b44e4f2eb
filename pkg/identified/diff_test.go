package identified_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/vine/pkg/identified"
	"github.com/stretchr/testify/assert"
)

func sameRow(a, b row) bool { return a == b }

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		old  identified.Array[row]
		new  identified.Array[row]
		want identified.Diff
	}{
		{
			name: "No Changes",
			old:  identified.New(row{ID: "1"}, row{ID: "2"}),
			new:  identified.New(row{ID: "1"}, row{ID: "2"}),
			want: identified.Diff{},
		},
		{
			name: "Initial Load",
			new:  identified.New(row{ID: "1"}, row{ID: "2"}),
			want: identified.Diff{Inserted: []string{"1", "2"}},
		},
		{
			name: "Append And Remove",
			old:  identified.New(row{ID: "1"}, row{ID: "2"}),
			new:  identified.New(row{ID: "2"}, row{ID: "3"}),
			want: identified.Diff{Inserted: []string{"3"}, Removed: []string{"1"}},
		},
		{
			name: "Value Update Keeps Identity",
			old:  identified.New(row{ID: "1", Label: "a"}),
			new:  identified.New(row{ID: "1", Label: "b"}),
			want: identified.Diff{Updated: []string{"1"}},
		},
		{
			name: "Reorder",
			old:  identified.New(row{ID: "1"}, row{ID: "2"}),
			new:  identified.New(row{ID: "2"}, row{ID: "1"}),
			want: identified.Diff{Reordered: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := identified.Compare(tt.old, tt.new, sameRow)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.IsEmpty(), got.IsEmpty())
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	d := identified.Compare(identified.New(row{ID: "1"}), identified.New(row{ID: "1"}), sameRow)
	data, _ := json.Marshal(d)
	assert.Equal(t, "{}", string(data), "empty diff should omit every field")

	d = identified.Compare(identified.New(row{ID: "1"}), identified.Array[row]{}, sameRow)
	data, _ = json.Marshal(d)
	assert.True(t, strings.Contains(string(data), `"removed":["1"]`), string(data))
}
