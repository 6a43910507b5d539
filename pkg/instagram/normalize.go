package instagram

import (
	"math"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/tidwall/gjson"
)

// valueKind is the JSON type a candidate must have to be accepted
type valueKind int

const (
	kindString valueKind = iota // non-empty after trimming
	kindNumber                  // finite number
	kindBool
)

// profileField describes how one Profile field is resolved: the first
// candidate path whose value matches kind wins.
type profileField struct {
	name  string
	kind  valueKind
	paths []string
	set   func(p *Profile, v gjson.Result)
}

// profileFields is the alias table for the profile endpoint. Upstream has
// served camelCase, snake_case and GraphQL edge shapes over time; new
// aliases are added here.
var profileFields = []profileField{
	{
		name: "username", kind: kindString,
		paths: []string{"username"},
		set:   func(p *Profile, v gjson.Result) { p.Username = v.Str },
	},
	{
		name: "fullName", kind: kindString,
		paths: []string{"fullName", "full_name"},
		set:   func(p *Profile, v gjson.Result) { p.FullName = v.Str },
	},
	{
		name: "biography", kind: kindString,
		paths: []string{"biography"},
		set:   func(p *Profile, v gjson.Result) { p.Biography = v.Str },
	},
	{
		name: "profilePicUrl", kind: kindString,
		paths: []string{"profilePicUrl", "profile_pic_url", "profile_pic_url_hd"},
		set:   func(p *Profile, v gjson.Result) { p.ProfilePicURL = v.Str },
	},
	{
		name: "postsCount", kind: kindNumber,
		paths: []string{"postsCount", "posts_count", "media_count", "posts"},
		set:   func(p *Profile, v gjson.Result) { p.PostsCount = count(v) },
	},
	{
		name: "followersCount", kind: kindNumber,
		paths: []string{"followersCount", "followers_count", "followers", "edge_followed_by.count"},
		set:   func(p *Profile, v gjson.Result) { p.FollowersCount = count(v) },
	},
	{
		name: "followingCount", kind: kindNumber,
		paths: []string{"followingCount", "following_count", "following", "edge_follow.count"},
		set:   func(p *Profile, v gjson.Result) { p.FollowingCount = count(v) },
	},
	{
		name: "isPrivate", kind: kindBool,
		paths: []string{"isPrivate", "is_private"},
		set:   func(p *Profile, v gjson.Result) { p.IsPrivate = v.Bool() },
	},
	{
		name: "isVerified", kind: kindBool,
		paths: []string{"isVerified", "is_verified"},
		set:   func(p *Profile, v gjson.Result) { p.IsVerified = v.Bool() },
	},
	{
		name: "externalUrl", kind: kindString,
		paths: []string{"externalUrl", "external_url"},
		set:   func(p *Profile, v gjson.Result) { p.ExternalURL = null.StringFrom(v.Str) },
	},
}

// NormalizeProfile maps a profile endpoint body onto a Profile. Every alias
// is tried under a nested "profile" object first, then at the top level.
// Fields with no matching candidate keep their zero value; the username
// falls back to requested. body must already be known to be valid JSON.
func NormalizeProfile(body []byte, requested string) Profile {
	data := gjson.ParseBytes(body)

	// A present, non-null "profile" key replaces the top level as the
	// primary source, whatever its type.
	source := data
	if nested := data.Get("profile"); nested.Exists() && nested.Type != gjson.Null {
		source = nested
	}

	profile := Profile{}
	for _, field := range profileFields {
		if v, ok := resolve(field, source, data); ok {
			field.set(&profile, v)
		}
	}

	if profile.Username == "" {
		profile.Username = requested
	}
	return profile
}

func resolve(field profileField, roots ...gjson.Result) (gjson.Result, bool) {
	for _, root := range roots {
		if !root.IsObject() {
			continue
		}
		for _, path := range field.paths {
			v := root.Get(path)
			if matches(v, field.kind) {
				return v, true
			}
		}
	}
	return gjson.Result{}, false
}

func matches(v gjson.Result, kind valueKind) bool {
	switch kind {
	case kindString:
		return v.Type == gjson.String && strings.TrimSpace(v.Str) != ""
	case kindNumber:
		if v.Type != gjson.Number {
			return false
		}
		f := v.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case kindBool:
		return v.Type == gjson.True || v.Type == gjson.False
	}
	return false
}

// count converts a JSON number to a non-negative integer, truncating any
// fractional part.
func count(v gjson.Result) int64 {
	f := v.Float()
	if f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if n := v.Int(); n > 0 {
		return n
	}
	return int64(f)
}
