package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/types"
)

func minifyFile(t *testing.T, path, extension, content string) string {
	t.Helper()
	settings := types.DefaultSettings()
	out, err := minifyAction(context.Background(), content, types.FileEntry{Path: path, Extension: extension}, &settings)
	require.NoError(t, err)
	return out
}

func TestMinify_JSON(t *testing.T) {
	out := minifyFile(t, "data.json", ".json", "{\n  \"a\": 1,\n  \"b\": [1, 2]\n}")
	assert.Equal(t, `{"a":1,"b":[1,2]}`, out)
}

func TestMinify_JSONInvalidFallsBack(t *testing.T) {
	out := minifyFile(t, "data.json", ".json", "not json   \n\n\n\nend")
	assert.Equal(t, "not json\n\nend", out)
}

func TestMinify_XML(t *testing.T) {
	out := minifyFile(t, "feed.xml", ".xml", "<root>\n  <item>1</item>\n  <item>2</item>\n</root>")
	assert.Equal(t, "<root><item>1</item><item>2</item></root>", out)
}

func TestMinify_HTML(t *testing.T) {
	content := "<div>\n  <p>hello</p>\n  <!-- note -->\n  <p>world</p>\n</div>"
	out := minifyFile(t, "page.html", ".html", content)
	assert.Equal(t, "<div><p>hello</p><p>world</p></div>", out)
}

func TestMinify_CSS(t *testing.T) {
	content := "body {\n  color: red;  /* brand */\n  margin: 0 auto;\n}"
	out := minifyFile(t, "site.css", ".css", content)
	assert.Equal(t, "body{color:red;margin:0 auto;}", out)
}

func TestMinify_CSSKeepsStringLiterals(t *testing.T) {
	content := `body { font-family: "Foo, Bar"; }`
	out := minifyFile(t, "site.css", ".css", content)
	assert.Equal(t, `body{font-family:"Foo, Bar";}`, out)
}

func TestMinify_JS(t *testing.T) {
	content := "function add(a, b) {\n    // sum\n    return a + b;\n}\n\n\nadd(1, 2);"
	out := minifyFile(t, "app.js", ".js", content)
	assert.Equal(t, "function add(a, b) {\nreturn a + b;\n}\nadd(1, 2);", out)
}

func TestMinify_JSKeepsStringLiterals(t *testing.T) {
	content := `const url = "http://x  //y";`
	out := minifyFile(t, "app.js", ".js", content)
	assert.Equal(t, `const url = "http://x  //y";`, out)
}

func TestMinify_Go(t *testing.T) {
	content := "func main() {\n\t// entry\n\tfmt.Println(\"hi  there\")\n}"
	out := minifyFile(t, "main.go", ".go", content)
	assert.Equal(t, "func main() {\nfmt.Println(\"hi  there\")\n}", out)
}

func TestMinify_GoRawStringSurvives(t *testing.T) {
	content := "var s = `\n    indented line\n\n  two spaces`"
	out := minifyFile(t, "main.go", ".go", content)
	assert.Equal(t, content, out)
}

func TestMinify_JSTemplateLiteralSurvives(t *testing.T) {
	content := "const msg = `\n    keep me\n\n\ttabbed`;\nsend(msg);"
	out := minifyFile(t, "app.js", ".js", content)
	assert.Equal(t, content, out)
}

func TestMinify_CodeAroundRawStringStillTightens(t *testing.T) {
	content := "func main() {\n\t// doc\n\tq := `SELECT *\n  FROM t`\n\trun(q)\n}"
	out := minifyFile(t, "main.go", ".go", content)
	assert.Equal(t, "func main() {\nq := `SELECT *\n  FROM t`\nrun(q)\n}", out)
}

func TestMinify_BacktickInQuotedStringIsNotADelimiter(t *testing.T) {
	content := "const tick = \"`\";\n    call();"
	out := minifyFile(t, "app.js", ".js", content)
	assert.Equal(t, "const tick = \"`\";\ncall();", out)
}

func TestMinify_GenericCollapsesBlankRuns(t *testing.T) {
	content := "line one   \n\n\n\n\nline two\t\n"
	out := minifyFile(t, "notes.txt", ".txt", content)
	assert.Equal(t, "line one\n\nline two\n", out)
}
