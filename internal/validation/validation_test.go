package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredTitle(t *testing.T) {
	t.Run("accepts normal title", func(t *testing.T) {
		assert.Nil(t, RequiredTitle("title", "Clean my room"))
	})

	t.Run("accepts title needing a trim", func(t *testing.T) {
		assert.Nil(t, RequiredTitle("title", "  Clean my room  "))
	})

	t.Run("rejects empty title", func(t *testing.T) {
		fe := RequiredTitle("title", "")
		require.NotNil(t, fe)
		assert.Equal(t, "title", fe.Field)
	})

	t.Run("rejects whitespace-only title", func(t *testing.T) {
		fe := RequiredTitle("title", "   \t ")
		require.NotNil(t, fe)
		assert.Equal(t, "   \t ", fe.Value)
	})

	t.Run("accepts title at max length", func(t *testing.T) {
		assert.Nil(t, RequiredTitle("title", strings.Repeat("a", MaxTitleLength)))
	})

	t.Run("rejects over-length title", func(t *testing.T) {
		fe := RequiredTitle("title", strings.Repeat("a", MaxTitleLength+1))
		require.NotNil(t, fe)
		assert.Contains(t, fe.Message, "255")
	})

	t.Run("over-length check applies after trimming", func(t *testing.T) {
		padded := "  " + strings.Repeat("a", MaxTitleLength) + "  "
		assert.Nil(t, RequiredTitle("title", padded))
	})
}

func TestOptionalTitle(t *testing.T) {
	assert.Nil(t, OptionalTitle("title", nil))

	blank := " "
	fe := OptionalTitle("title", &blank)
	require.NotNil(t, fe)
	assert.Equal(t, "title", fe.Field)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    uint
		wantErr bool
	}{
		{name: "valid", raw: "42", want: 42},
		{name: "max 32-bit", raw: "2147483647", want: 2147483647},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-1", wantErr: true},
		{name: "beyond 32-bit", raw: "3000000000", wantErr: true},
		{name: "not a number", raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, fe := ParseID("id", tt.raw)
			if tt.wantErr {
				require.NotNil(t, fe)
				assert.Equal(t, "ID must be a positive integer within 32-bit range (1 to 2,147,483,647)", fe.Message)
				return
			}
			require.Nil(t, fe)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestBulkSize(t *testing.T) {
	assert.Nil(t, BulkSize("body", 1, 10))
	assert.Nil(t, BulkSize("body", 10, 10))

	fe := BulkSize("body", 0, 10)
	require.NotNil(t, fe)
	assert.Equal(t, "Batch operation must contain between 1 and 10 todos", fe.Message)

	fe = BulkSize("body", 11, 10)
	require.NotNil(t, fe)

	fe = BulkSize("ids", 101, 100)
	require.NotNil(t, fe)
	assert.Equal(t, "Batch operation must contain between 1 and 100 todos", fe.Message)
}

func TestIDList(t *testing.T) {
	assert.Empty(t, IDList("ids", []int64{1, 2, 3}, 10))

	errs := IDList("ids", []int64{}, 10)
	require.Len(t, errs, 1)

	errs = IDList("ids", []int64{1, 0, 3000000000}, 10)
	require.Len(t, errs, 2)
	assert.Equal(t, "ids[1]", errs[0].Field)
	assert.Equal(t, "ids[2]", errs[1].Field)
}

func TestUsername(t *testing.T) {
	assert.Nil(t, Username("username", "giorno"))

	fe := Username("username", "ab")
	require.NotNil(t, fe)
	assert.Equal(t, "username", fe.Field)
}
