package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const metaobjectGIDPrefix = "gid://shopify/Metaobject/"

// MetaobjectField is one key/value pair of a metaobject entry.
type MetaobjectField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const metaobjectByIDQuery = `
query getMetaobject($id: ID!) {
    metaobject(id: $id) {
        id
        handle
        type
        fields {
            key
            value
            type
        }
    }
}`

// MetaobjectFields fetches the fields of one metaobject entry by GID.
func (c *Client) MetaobjectFields(ctx context.Context, gid string) ([]MetaobjectField, error) {
	data, err := c.Execute(ctx, metaobjectByIDQuery, map[string]any{"id": gid})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Metaobject *struct {
			Fields []MetaobjectField `json:"fields"`
		} `json:"metaobject"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal metaobject: %w", err)
	}
	if resp.Metaobject == nil {
		return nil, fmt.Errorf("metaobject not found: %s", gid)
	}
	return resp.Metaobject.Fields, nil
}

// materialFieldKeys are probed in priority order when extracting a material
// name from a metaobject.
var materialFieldKeys = []string{
	"display_name",
	"name",
	"title",
	"material_name",
	"label",
	"handle",
}

// ExtractMaterialName pulls a human-readable material name from metaobject
// fields: the first priority key with a value wins, otherwise all field
// values are concatenated.
func ExtractMaterialName(fields []MetaobjectField) string {
	byKey := make(map[string]string, len(fields))
	for _, f := range fields {
		byKey[strings.ToLower(f.Key)] = strings.TrimSpace(f.Value)
	}
	for _, key := range materialFieldKeys {
		if v := byKey[key]; v != "" {
			return v
		}
	}

	var values []string
	for _, f := range fields {
		if v := strings.TrimSpace(f.Value); v != "" {
			values = append(values, v)
		}
	}
	return strings.Join(values, " ")
}

// MaterialResolver resolves material metaobject GIDs to display names,
// caching results for a day since materials change rarely.
type MaterialResolver struct {
	client *Client
	cache  *cache.Cache
}

func NewMaterialResolver(client *Client) *MaterialResolver {
	return &MaterialResolver{
		client: client,
		cache:  cache.New(24*time.Hour, time.Hour),
	}
}

// Resolve maps a metaobject GID to a material name. Malformed GIDs are an
// error rather than a lookup.
func (r *MaterialResolver) Resolve(ctx context.Context, gid string) (string, error) {
	gid = strings.TrimSpace(gid)
	if !strings.HasPrefix(gid, metaobjectGIDPrefix) {
		return "", fmt.Errorf("invalid metaobject gid: %q", gid)
	}

	if cached, ok := r.cache.Get(gid); ok {
		return cached.(string), nil
	}

	fields, err := r.client.MetaobjectFields(ctx, gid)
	if err != nil {
		return "", err
	}
	name := ExtractMaterialName(fields)
	if name == "" {
		return "", fmt.Errorf("no material name in metaobject %s", gid)
	}

	r.cache.Set(gid, name, cache.DefaultExpiration)
	return name, nil
}

// ResolveBatch resolves several GIDs, mapping each to its name or leaving it
// out on failure.
func (r *MaterialResolver) ResolveBatch(ctx context.Context, gids []string) map[string]string {
	out := make(map[string]string, len(gids))
	for _, gid := range gids {
		if name, err := r.Resolve(ctx, gid); err == nil {
			out[gid] = name
		}
	}
	return out
}

// Clear drops all cached resolutions.
func (r *MaterialResolver) Clear() {
	r.cache.Flush()
}
