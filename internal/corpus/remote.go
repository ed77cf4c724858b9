// remote.go fetches a test definition file over HTTP(S) so corpora published
// by test-suite repositories can be benchmarked without a local checkout.
// Transient fetch failures are retried with backoff.
package corpus

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

func loadRemote(rawURL string) (*Set, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse corpus URL: %w", err)
	}

	base := path.Base(u.Path)
	set := NewSet()
	if strings.HasPrefix(base, skipPrefix) {
		return set, nil
	}

	client := retryablehttp.NewClient()
	client.Logger = nil

	resp, err := client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch corpus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetch corpus: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read corpus body: %w", err)
	}

	if err := parseInto(set, base, path.Ext(base), data); err != nil {
		return nil, err
	}
	return set, nil
}
