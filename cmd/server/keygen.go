package main

import (
	"fmt"
	"io"

	"atproto-handle/pkg/platform/secrets"
)

const genAPIKeyCommand = "gen-api-key"

// genAPIKey prints a fresh admin key and its bcrypt hash. The operator hands
// the key to clients and deploys only API_KEY_HASH.
func genAPIKey(w io.Writer) error {
	key, err := secrets.Generate()
	if err != nil {
		return err
	}
	hash, err := secrets.Hash(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "API_KEY=%s\nAPI_KEY_HASH=%s\n", key, hash)
	return err
}
