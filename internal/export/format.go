package export

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// Currency renders v like "$1,234.56"; negative amounts lead with the sign.
func Currency(v float64) string {
	s := humanize.FormatFloat("#,###.##", v)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

func Percent(v float64) string {
	return humanize.FormatFloat("#,###.##", v) + "%"
}

func Count(n int) string {
	return humanize.Comma(int64(n))
}
