package indenter

import (
	"fmt"
	"strings"
)

// indenter incrementally builds an indented, multi-line rendering of a
// nested structure. Renderings are built through chains of the form
// Indenter().Start("{").NestSep(",", members...).End("}").
type indenter struct {
	buffer *strings.Builder
	level  *int
}

func Indenter() indenter {
	var level int
	return indenter{new(strings.Builder), &level}
}

func (i indenter) indent() string {
	return strings.Repeat("  ", *i.level)
}

func (i indenter) Start(str string) indenter {
	i.buffer.WriteString(str)
	return i
}

type stringableString string

func (s stringableString) String() string {
	return string(s)
}

func (i indenter) NestStrings(strs ...string) indenter {
	return i.NestStringsSep("", strs...)
}

func (i indenter) NestStringsSep(sep string, strs ...string) indenter {
	stringers := make([]fmt.Stringer, len(strs))
	for j, v := range strs {
		stringers[j] = stringableString(v)
	}
	return i.NestSep(sep, stringers...)
}

func (i indenter) Nest(strs ...fmt.Stringer) indenter {
	return i.NestSep("", strs...)
}

func (i indenter) NestSep(sep string, strs ...fmt.Stringer) indenter {
	if len(strs) == 1 {
		i.buffer.WriteString(strs[0].String())
		return i
	}

	*i.level++
	for j, str := range strs {
		i.buffer.WriteString("\n" + i.indent() + str.String())
		if j < len(strs)-1 {
			i.buffer.WriteString(sep)
		}
	}
	*i.level--
	i.buffer.WriteString("\n")
	return i
}

func (i indenter) NestThunked(strs ...func() string) indenter {
	return i.NestThunkedSep("", strs...)
}

func (i indenter) NestThunkedSep(sep string, strs ...func() string) indenter {
	if len(strs) == 1 {
		i.buffer.WriteString(strs[0]())
		return i
	}

	*i.level++
	for j, str := range strs {
		i.buffer.WriteString("\n" + i.indent() + str())
		if j < len(strs)-1 {
			i.buffer.WriteString(sep)
		}
	}
	*i.level--
	i.buffer.WriteString("\n")
	return i
}

func (i indenter) End(str string) string {
	buf := i.buffer.String()
	if len(buf) > 0 && buf[len(buf)-1] == '\n' {
		return buf + i.indent() + str
	}
	return buf + str
}
