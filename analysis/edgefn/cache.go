package edgefn

// The solver composes and joins edge functions along every explored
// path edge. Interning the results on the structural identity of their
// operands keeps repeated composition along cyclic paths from minting
// fresh instances, so the identity fast path of EqualTo fires and
// fixed-point detection stabilises.

type opKey struct {
	f, g EdgeFunction
}

// Cache interns composed and joined edge functions.
type Cache struct {
	compose map[opKey]EdgeFunction
	join    map[opKey]EdgeFunction
}

// NewCache creates an empty interning cache.
func NewCache() *Cache {
	return &Cache{
		compose: make(map[opKey]EdgeFunction),
		join:    make(map[opKey]EdgeFunction),
	}
}

// Compose returns the canonical composition λx. g(f(x)).
func (c *Cache) Compose(f, g EdgeFunction) EdgeFunction {
	if _, ok := g.(identityFn); ok {
		return f
	}
	if _, ok := f.(identityFn); ok {
		return g
	}
	if _, ok := ConstantValue(g); ok {
		return g
	}

	key := opKey{f, g}
	if res, ok := c.compose[key]; ok {
		return res
	}
	res := f.ComposeWith(g)
	c.compose[key] = res
	return res
}

// Join returns the canonical pointwise join of f and g.
func (c *Cache) Join(f, g EdgeFunction) EdgeFunction {
	if f == g || f.EqualTo(g) {
		return f
	}

	key := opKey{f, g}
	if res, ok := c.join[key]; ok {
		return res
	}
	res := f.JoinWith(g)
	c.join[key] = res
	return res
}

// Len reports how many interned functions the cache holds.
func (c *Cache) Len() int {
	return len(c.compose) + len(c.join)
}
