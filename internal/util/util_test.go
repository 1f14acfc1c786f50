package util

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_HomeDir(t *testing.T) {
	tests := []struct {
		name string
		env  string
		dir  string
		want string
	}{
		{
			name: "test linux/unix home directory",
			env:  "HOME",
			dir:  "/home/test",
			want: "/home/test",
		},
		{
			name: "test windows home directory",
			env:  "USERPROFILE",
			dir:  `C:\Users\test`,
			want: `C:\Users\test`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.env, tt.dir)
			if HomeDir() != tt.want {
				assert.Equal(t, tt.want, HomeDir())
			}
			os.Unsetenv(tt.env) // cleanup
		})
	}
}

func Test_IsURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "valid url with http",
			url:  "http://example.com",
			want: true,
		},
		{
			name: "valid url with https",
			url:  "https://example.com",
			want: true,
		},
		{
			name: "invalid url without scheme",
			url:  "example.com",
			want: false,
		},
		{
			name: "invalid url with spaces",
			url:  "http://example .com",
			want: false,
		},
		{
			name: "empty string",
			url:  "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsURL(tt.url); got != tt.want {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func Test_CategoryTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single word",
			in:   "networking",
			want: "Networking",
		},
		{
			name: "snake case name",
			in:   "memory_issues",
			want: "Memory Issues",
		},
		{
			name: "name with cpu",
			in:   "high_cpu_usage",
			want: "High CPU Usage",
		},
		{
			name: "name with io",
			in:   "disk_io_saturation",
			want: "Disk IO Saturation",
		},
		{
			name: "hyphenated name",
			in:   "slow-queries",
			want: "Slow Queries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryTitle(tt.in); got != tt.want {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func Test_SplitYAML(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "single document",
			doc:  `high_cpu_usage: []`,
			want: []string{`high_cpu_usage: []`},
		},
		{
			name: "multiple documents",
			doc: `high_cpu_usage: []
---
memory_issues: []`,
			want: []string{`high_cpu_usage: []`, `memory_issues: []`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitYAML(tt.doc); !reflect.DeepEqual(got, tt.want) {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func Test_EstimateNumberOfLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "no line",
			text: "",
			want: 0,
		},
		{
			name: "single line without newline",
			text: "Hello, World!",
			want: 1,
		},
		{
			name: "single line with newline",
			text: "Hello, World!\n",
			want: 1,
		},
		{
			name: "multiple lines",
			text: "Hello,\nWorld!",
			want: 2,
		},
		{
			name: "multiple lines ending with newline",
			text: "Hello,\nWorld!\n",
			want: 2,
		},
		{
			name: "multiple lines with extra newlines",
			text: "\nHello,\nWorld!\n\n",
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateNumberOfLines(tt.text); got != tt.want {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name    string
		tpl     string
		data    interface{}
		want    string
		wantErr bool
	}{
		{
			name:    "empty template and data",
			tpl:     "",
			data:    nil,
			want:    "",
			wantErr: false,
		},
		{
			name:    "empty template with data",
			tpl:     "",
			data:    map[string]string{"Name": "World"},
			want:    "",
			wantErr: false,
		},
		{
			name:    "empty data with template with no keys",
			tpl:     "Hello, World!",
			data:    nil,
			want:    "Hello, World!",
			wantErr: false,
		},
		{
			name:    "simple template",
			tpl:     "Hello, {{ .Name }}!",
			data:    map[string]string{"Name": "World"},
			want:    "Hello, World!",
			wantErr: false,
		},
		{
			name:    "template with missing key",
			tpl:     "Hello, {{ .Name }}!",
			data:    map[string]string{"Name2": "World"},
			want:    "Hello, <no value>!",
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderTemplate(tt.tpl, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("RenderTemplate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.want, got, "RenderTemplate() = %v, want %v", got, tt.want)
		})
	}
}
