package bins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAggregated(t *testing.T) {
	assert.Equal(t, []string{}, splitAggregated(nil))

	empty := ""
	assert.Equal(t, []string{}, splitAggregated(&empty))

	single := "BC-102"
	assert.Equal(t, []string{"BC-102"}, splitAggregated(&single))

	many := "BC-102,OF-220,PK-001"
	assert.Equal(t, []string{"BC-102", "OF-220", "PK-001"}, splitAggregated(&many))
}
