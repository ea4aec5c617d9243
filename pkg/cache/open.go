package cache

import (
	"context"
	"fmt"
	"strings"
)

// Open returns the backend for location:
//
//	""                      NullCache
//	redis://, rediss://     RedisCache
//	mongodb://, mongodb+srv:// MongoCache
//	anything else           FileCache rooted at that directory
func Open(ctx context.Context, location string) (Cache, error) {
	scheme, _, hasScheme := strings.Cut(location, "://")
	switch {
	case location == "":
		return NewNullCache(), nil
	case !hasScheme:
		fc, err := NewFileCache(location)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case scheme == "redis" || scheme == "rediss":
		rc, err := NewRedisCache(ctx, location)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case scheme == "mongodb" || scheme == "mongodb+srv":
		mc, err := NewMongoCache(ctx, location)
		if err != nil {
			return nil, err
		}
		return mc, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, scheme)
	}
}

// Describe returns a human-readable name for a cache backend.
func Describe(c Cache) string {
	switch c := c.(type) {
	case NullCache:
		return "disabled"
	case *FileCache:
		return "file " + c.Dir()
	case *RedisCache:
		return "redis " + c.client.Options().Addr
	case *MongoCache:
		return "mongodb " + c.coll.Database().Name() + "." + c.coll.Name()
	default:
		return fmt.Sprintf("%T", c)
	}
}
