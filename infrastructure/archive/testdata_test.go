package archive

import (
	"fmt"
	"strings"
)

// tableHTML renders draws as an archive page large enough to pass the size filter
func tableHTML(draws ...[]int) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	b.WriteString("<tr><th>Concorso</th><th>Data</th><th>N1</th><th>N2</th><th>N3</th><th>N4</th><th>N5</th><th>N6</th></tr>")
	for i, d := range draws {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%02d/01/2024</td>", i+1, i+1)
		for _, n := range d {
			fmt.Fprintf(&b, "<td>%d</td>", n)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table><!--")
	b.WriteString(strings.Repeat("padding ", 200))
	b.WriteString("--></body></html>")
	return b.String()
}
