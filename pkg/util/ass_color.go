package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ASSColor converts a #RRGGBB hex color into the &HAABBGGRR form the
// libass subtitles filter expects. rgba() inputs collapse to
// semi-transparent black, anything unparseable to opaque white
func ASSColor(c string) string {
	if strings.HasPrefix(c, "rgba") {
		return "&H80000000"
	}

	if strings.HasPrefix(c, "#") && len(c) == 7 {
		r, err1 := strconv.ParseUint(c[1:3], 16, 8)
		g, err2 := strconv.ParseUint(c[3:5], 16, 8)
		b, err3 := strconv.ParseUint(c[5:7], 16, 8)
		if err1 == nil && err2 == nil && err3 == nil {
			return fmt.Sprintf("&H00%02X%02X%02X", b, g, r)
		}
	}

	return "&H00FFFFFF"
}
