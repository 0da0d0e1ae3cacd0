package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_EscapesOutsideMath(t *testing.T) {
	got := Sanitize(`if a < b & b > c then $x < y$ holds`)
	assert.Equal(t, `if a &lt; b &amp; b &gt; c then $x < y$ holds`, got)
}

func TestSanitize_BlockMathUntouched(t *testing.T) {
	in := `see $$\frac{a<b}{c&d}$$ and <tag>`
	got := Sanitize(in)
	assert.Equal(t, `see $$\frac{a<b}{c&d}$$ and &lt;tag&gt;`, got)
}

func TestSanitize_PreservesRegionCountAndOrder(t *testing.T) {
	in := `$a<1$ mid $$b>2$$ end $c&3$`
	got := Sanitize(in)

	for _, region := range []string{`$a<1$`, `$$b>2$$`, `$c&3$`} {
		assert.Contains(t, got, region)
	}
	assert.Equal(t, strings.Count(in, "$"), strings.Count(got, "$"))
	assert.Less(t, strings.Index(got, `$a<1$`), strings.Index(got, `$$b>2$$`))
	assert.Less(t, strings.Index(got, `$$b>2$$`), strings.Index(got, `$c&3$`))
}

func TestSanitize_IdempotentOnCleanText(t *testing.T) {
	in := `plain text with $x<y$ math and nothing to escape`
	once := Sanitize(in)
	twice := Sanitize(once)
	assert.Equal(t, once, twice)
}

func TestSanitize_NoMath(t *testing.T) {
	assert.Equal(t, "a &amp; b", Sanitize("a & b"))
	assert.Equal(t, "", Sanitize(""))
}
