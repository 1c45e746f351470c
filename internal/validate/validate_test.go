package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"entities/internal/domain"
)

func mustPayload(t *testing.T, body string) Payload {
	t.Helper()
	p, fe := ParsePayload([]byte(body))
	require.Nil(t, fe, "unexpected parse error")
	return p
}

func paths(errs []domain.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fe.Path)
	}
	return out
}

func TestParsePayload(t *testing.T) {
	t.Run("empty body is an empty object", func(t *testing.T) {
		p, fe := ParsePayload(nil)
		require.Nil(t, fe)
		require.Empty(t, p)
	})

	t.Run("object decodes", func(t *testing.T) {
		p := mustPayload(t, `{"name":"Alpha","type":"typeA"}`)
		require.Len(t, p, 2)
	})

	cases := map[string]string{
		"malformed JSON":  `{"name":`,
		"array body":      `[1,2,3]`,
		"string body":     `"hello"`,
		"null body":       `null`,
		"trailing object": `{"name":"a"}{"name":"b"}`,
		"trailing junk":   `{"name":"a"} x`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, fe := ParsePayload([]byte(body))
			require.NotNil(t, fe)
			require.Equal(t, domain.LocationBody, fe.Location)
			require.Equal(t, "field", fe.Type)
		})
	}
}

func TestCreate(t *testing.T) {
	t.Run("minimal payload", func(t *testing.T) {
		in, errs := Create(mustPayload(t, `{"name":"Alpha","type":"typeA"}`))
		require.Empty(t, errs)
		require.Equal(t, "Alpha", in.Name)
		require.Equal(t, "typeA", in.Type)
		require.Nil(t, in.Description)
		require.Nil(t, in.ExtraText)
	})

	t.Run("full payload", func(t *testing.T) {
		in, errs := Create(mustPayload(t, `{"name":"Beta","type":"typeB","description":"desc","extra_text":"more"}`))
		require.Empty(t, errs)
		require.Equal(t, "desc", *in.Description)
		require.Equal(t, "more", *in.ExtraText)
	})

	t.Run("null optionals stay nil", func(t *testing.T) {
		in, errs := Create(mustPayload(t, `{"name":"a","type":"b","description":null,"extra_text":null}`))
		require.Empty(t, errs)
		require.Nil(t, in.Description)
		require.Nil(t, in.ExtraText)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		_, errs := Create(mustPayload(t, `{"name":"a","type":"b","id":99,"created_at":"x"}`))
		require.Empty(t, errs)
	})

	t.Run("missing required fields are all reported", func(t *testing.T) {
		_, errs := Create(Payload{})
		require.Equal(t, []string{"name", "type"}, paths(errs))
		require.Equal(t, "name is required", errs[0].Msg)
		require.Nil(t, errs[0].Value)
	})

	t.Run("empty strings fail length", func(t *testing.T) {
		_, errs := Create(mustPayload(t, `{"name":"","type":""}`))
		require.Equal(t, []string{"name", "type"}, paths(errs))
		require.Equal(t, "name must be between 1 and 200 characters", errs[0].Msg)
		require.Equal(t, "type must be between 1 and 100 characters", errs[1].Msg)
	})

	t.Run("length limits are inclusive", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("n", 200) + `","type":"` + strings.Repeat("t", 100) + `"}`
		_, errs := Create(mustPayload(t, body))
		require.Empty(t, errs)

		body = `{"name":"` + strings.Repeat("n", 201) + `","type":"` + strings.Repeat("t", 101) + `"}`
		_, errs = Create(mustPayload(t, body))
		require.Equal(t, []string{"name", "type"}, paths(errs))
		require.Equal(t, strings.Repeat("n", 201), errs[0].Value)
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("ż", 200) + `","type":"typ"}`
		_, errs := Create(mustPayload(t, body))
		require.Empty(t, errs)
	})

	t.Run("wrong types are reported once per field", func(t *testing.T) {
		_, errs := Create(mustPayload(t, `{"name":123,"type":"ok","description":true,"extra_text":["x"]}`))
		require.Equal(t, []string{"name", "description", "extra_text"}, paths(errs))
		require.Equal(t, "name must be a string", errs[0].Msg)
		require.Equal(t, float64(123), errs[0].Value)
		require.Equal(t, true, errs[1].Value)
	})

	t.Run("does not mutate the payload", func(t *testing.T) {
		p := mustPayload(t, `{"name":"a"}`)
		_, _ = Create(p)
		require.Len(t, p, 1)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("empty payload is a no-op patch", func(t *testing.T) {
		patch, errs := Update(Payload{})
		require.Empty(t, errs)
		require.True(t, patch.IsEmpty())
	})

	t.Run("subset payload", func(t *testing.T) {
		patch, errs := Update(mustPayload(t, `{"type":"typeZ"}`))
		require.Empty(t, errs)
		require.Nil(t, patch.Name)
		require.Equal(t, "typeZ", *patch.Type)
	})

	t.Run("null means keep", func(t *testing.T) {
		patch, errs := Update(mustPayload(t, `{"name":null,"description":null}`))
		require.Empty(t, errs)
		require.True(t, patch.IsEmpty())
	})

	t.Run("supplied fields are validated", func(t *testing.T) {
		_, errs := Update(mustPayload(t, `{"name":"","type":"`+strings.Repeat("t", 101)+`","extra_text":5}`))
		require.Equal(t, []string{"name", "type", "extra_text"}, paths(errs))
	})

	t.Run("empty optional strings are allowed", func(t *testing.T) {
		patch, errs := Update(mustPayload(t, `{"description":""}`))
		require.Empty(t, errs)
		require.Equal(t, "", *patch.Description)
	})
}

func TestID(t *testing.T) {
	valid := map[string]int64{"1": 1, "42": 42, "999999": 999999}
	for raw, want := range valid {
		id, fe := ID(raw)
		require.Nil(t, fe, raw)
		require.Equal(t, want, id)
	}

	for _, raw := range []string{"", "0", "-3", "abc", "1.5", "12abc", "99999999999999999999"} {
		_, fe := ID(raw)
		require.NotNil(t, fe, "expected %q to be rejected", raw)
		require.Equal(t, domain.LocationParams, fe.Location)
		require.Equal(t, "id", fe.Path)
		require.Equal(t, raw, fe.Value)
	}
}
