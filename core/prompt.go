package core

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\a`, "\a", // alert
		`\e`, "\033", // escape
	)
)

func unescape(s string) string {
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 16)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return unescapeReplace.Replace(s)
}

// PromptInfo holds the values substituted into a prompt template.
type PromptInfo struct {
	User string
	Host string
	Cwd  string
	Home string
	Root bool
}

// RenderPrompt expands template. \u is the user, \h the host, \w the working
// directory with Home replaced by ~, and \$ is # for root or $ otherwise.
func RenderPrompt(template string, info PromptInfo, colors *ColorPrinter) string {
	cwd := info.Cwd
	if home := info.Home; home != "" && (cwd == home || strings.HasPrefix(cwd, home+"/")) {
		cwd = "~" + strings.TrimPrefix(cwd, home)
	}

	sign := "$"
	if info.Root {
		sign = "#"
	}

	// Escapes in the template are handled before substitution so that values
	// like a directory named `\n` come through untouched.
	prompt := unescape(template)
	replacer := strings.NewReplacer(
		`\u`, colors.Sprintf(ColorBoldGreen, "%s", info.User),
		`\h`, colors.Sprintf(ColorBoldGreen, "%s", info.Host),
		`\w`, colors.Sprintf(ColorBoldBlue, "%s", cwd),
		`\$`, sign,
	)
	return replacer.Replace(prompt)
}
