package common

import (
	"os"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake id for database rows.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake id in base58 string form.
func UUID() string {
	return snowflakeNode.Generate().Base58()
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var nonDigitRegexp = regexp.MustCompile(`\D`)

// UnmaskDigits strips every non-digit rune, used for phone and postal
// code form inputs that arrive masked.
func UnmaskDigits(s string) string {
	return nonDigitRegexp.ReplaceAllString(s, "")
}

var slugInvalidRegexp = regexp.MustCompile(`[^a-z0-9-]+`)
var slugDashRegexp = regexp.MustCompile(`-{2,}`)

// Slugify normalizes a store name into a URL and subdomain safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "ã", "a", "â", "a",
		"é", "e", "ê", "e", "í", "i",
		"ó", "o", "õ", "o", "ô", "o",
		"ú", "u", "ü", "u", "ç", "c",
		"&", "e", " ", "-", "_", "-",
	)
	s = replacer.Replace(s)
	s = slugInvalidRegexp.ReplaceAllString(s, "")
	s = slugDashRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IfEmptyStr returns defval when src is empty.
func IfEmptyStr(src string, defval string) string {
	if src == "" {
		return defval
	}
	return src
}
