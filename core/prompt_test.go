package core

import (
	"fmt"
	"testing"

	"github.com/josephlewis42/mysh/core/config"
	"github.com/stretchr/testify/assert"
)

func ExampleRenderPrompt() {
	colors := &ColorPrinter{Mode: config.ColorNever}
	info := PromptInfo{User: "user", Host: "box", Cwd: "/home/user/src", Home: "/home/user"}

	fmt.Println(RenderPrompt(`\u@\h:\w\$ `, info, colors))
	// Output: user@box:~/src$
}

func TestRenderPrompt(t *testing.T) {
	colors := &ColorPrinter{Mode: config.ColorNever}

	cases := map[string]struct {
		template string
		info     PromptInfo
		want     string
	}{
		"home": {
			template: `\u@\h:\w\$ `,
			info:     PromptInfo{User: "user", Host: "box", Cwd: "/home/user", Home: "/home/user"},
			want:     "user@box:~$ ",
		},
		"outside home": {
			template: `\u@\h:\w\$ `,
			info:     PromptInfo{User: "user", Host: "box", Cwd: "/tmp", Home: "/home/user"},
			want:     "user@box:/tmp$ ",
		},
		"home prefix is not home": {
			template: `\w`,
			info:     PromptInfo{Cwd: "/home/user2", Home: "/home/user"},
			want:     "/home/user2",
		},
		"no home": {
			template: `\w`,
			info:     PromptInfo{Cwd: "/srv"},
			want:     "/srv",
		},
		"root": {
			template: `\u\$ `,
			info:     PromptInfo{User: "root", Root: true},
			want:     "root# ",
		},
		"escapes": {
			template: `\u\n> `,
			info:     PromptInfo{User: "user"},
			want:     "user\n> ",
		},
		"literal values": {
			template: `\w`,
			info:     PromptInfo{Cwd: `/tmp/\n`},
			want:     `/tmp/\n`,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, RenderPrompt(tc.template, tc.info, colors))
		})
	}
}

func TestRenderPromptColor(t *testing.T) {
	colors := &ColorPrinter{Mode: config.ColorAlways}
	info := PromptInfo{User: "user", Host: "box", Cwd: "/tmp"}

	prompt := RenderPrompt(`\u@\h:\w\$ `, info, colors)
	assert.Contains(t, prompt, "\x1b[")
	assert.Contains(t, prompt, "user")
}

func TestColorPrinterAuto(t *testing.T) {
	// Without a terminal, auto means no color.
	colors := &ColorPrinter{Mode: config.ColorAuto}
	assert.False(t, colors.ShouldColor())
	assert.Equal(t, "plain", colors.Sprintf(ColorBoldRed, "%s", "plain"))
}
