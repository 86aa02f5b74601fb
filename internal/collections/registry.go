package collections

import (
	"strings"
)

// defaultSlugs maps the Flooring collections the monitor knows about to the
// slugs the valuation service uses. Addresses are lowercase hex.
var defaultSlugs = map[string]string{
	"0xbd3531da5cf5857e7cfaa92426877b022e612cf8": "pudgypenguins",
	"0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d": "boredapeyachtclub",
	"0xfd1b0b0dfa524e1fd42e7d51155a663c581bbd50": "y00ts",
	"0xed5af388653567af2f388e6224dc7c4b3241c544": "azuki",
	"0x8821bee2ba0df28761afff119d66390d594cd280": "degods",
	"0x49cf6f5d44e70224e2e23fdcdd2c053f30ada28b": "clonex",
	"0x60e4d786628fea6478f785a6d7e704777c86a7c6": "mutant-ape-yacht-club",
	"0x8a90cab2b38dba80c64b7734e58ee1db38b8992e": "doodles-official",
	"0x23581767a106ae21c074b2276d25e5c3e136a68b": "proof-moonbirds",
}

// Registry is an immutable address→slug lookup built once at startup and
// shared by reference. It is never mutated afterwards, so no locking.
type Registry struct {
	slugs map[string]string
}

// NewRegistry builds the registry from the compiled-in defaults merged with
// extra entries (typically from config). Extra entries win on conflict.
func NewRegistry(extra map[string]string) *Registry {
	slugs := make(map[string]string, len(defaultSlugs)+len(extra))
	for address, slug := range defaultSlugs {
		slugs[address] = slug
	}
	for address, slug := range extra {
		address = strings.ToLower(strings.TrimSpace(address))
		slug = strings.TrimSpace(slug)
		if address == "" || slug == "" {
			continue
		}
		slugs[address] = slug
	}
	return &Registry{slugs: slugs}
}

// Resolve returns the slug for a lowercase-hex collection address. Unknown
// addresses return ok=false; callers fall back to the raw address and skip
// slug-dependent lookups.
func (r *Registry) Resolve(address string) (string, bool) {
	slug, ok := r.slugs[strings.ToLower(address)]
	return slug, ok
}
