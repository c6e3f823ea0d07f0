// Package browser opens the running server's pages in the user's browser.
package browser

import (
	"fmt"
	"net"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// LocalURL builds the URL a browser on this machine uses to reach a
// server listening on addr. Wildcard hosts map to localhost.
func LocalURL(addr, path string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Scheme: "http", Host: net.JoinHostPort(host, port), Path: path}
	return u.String(), nil
}

// Open starts the platform's URL handler on rawURL without waiting for it.
// Only http and https URLs are accepted.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("not opening %q: scheme must be http or https", rawURL)
	}

	return exec.Command(opener[0], append(opener[1:], rawURL)...).Start()
}

// opener is the command that hands a URL to the desktop. On windows
// rundll32 is used so the URL never passes through cmd's parser.
var opener = func() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}()
