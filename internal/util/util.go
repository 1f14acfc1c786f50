package util

import (
	"bytes"
	"net/url"
	"os"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func HomeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	return os.Getenv("USERPROFILE") // windows
}

func IsURL(str string) bool {
	parsed, err := url.ParseRequestURI(str)
	if err != nil {
		return false
	}

	return parsed.Scheme != ""
}

// CategoryTitle converts a lower_snake_case category name to a human
// readable title, e.g. "high_cpu_usage" becomes "High CPU Usage".
func CategoryTitle(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	words := strings.Split(cases.Title(language.English).String(name), " ")
	casedWords := []string{}
	for _, word := range words {
		switch strings.ToLower(word) {
		case "cpu", "io", "dns", "tls", "api", "http", "tcp", "udp", "os":
			casedWords = append(casedWords, strings.ToUpper(word))
		default:
			casedWords = append(casedWords, word)
		}
	}

	return strings.Join(casedWords, " ")
}

// SplitYAML splits a multi-document yaml string into a list of documents.
func SplitYAML(doc string) []string {
	return strings.Split(doc, "\n---\n")
}

// EstimateNumberOfLines estimates the number of lines in a string.
// The string is not required to end with a newline.
func EstimateNumberOfLines(text string) int {
	n := strings.Count(text, "\n")
	if len(text) > 0 && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// RenderTemplate renders a go template with the given data.
func RenderTemplate(tpl string, data interface{}) (string, error) {
	tmpl, err := template.New("render").Parse(tpl)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "failed to execute template")
	}

	return buf.String(), nil
}
