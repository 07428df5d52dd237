package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/dialect"
)

func TestFromIsTotal(t *testing.T) {
	cases := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindNull},
		{"int", 7, KindInt},
		{"int64", int64(7), KindInt},
		{"float64", 3.5, KindReal},
		{"string", "hi", KindText},
		{"bytes", []byte("hi"), KindBlob},
		{"bool", true, KindBool},
		{"time", time.Now(), KindTime},
		{"unsupported struct", struct{ X int }{1}, KindText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := From(tc.in, dialect.SQLite)
			assert.Equal(t, tc.kind, v.Kind())
		})
	}
}

func TestNullIsDistinctVariant(t *testing.T) {
	n := Null(dialect.SQLite)
	assert.True(t, n.IsNull())
	assert.Equal(t, KindNull, n.Kind())
}

func TestInt64Overflow(t *testing.T) {
	big := Int(int64(1)<<33, dialect.SQLite)
	_, err := big.Int32()
	require.Error(t, err)
}

func TestRealToIntLossy(t *testing.T) {
	v := Real(3.5, dialect.SQLite)
	_, err := v.Int64()
	require.Error(t, err)

	whole := Real(4.0, dialect.SQLite)
	n, err := whole.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestArrayIsPostgresOnly(t *testing.T) {
	_, err := Array([]Value{Int(1, dialect.SQLite)}, dialect.SQLite)
	require.Error(t, err)

	arr, err := Array([]Value{Int(1, dialect.Postgres), Int(2, dialect.Postgres)}, dialect.Postgres)
	require.NoError(t, err)
	elems, err := arr.Elems()
	require.NoError(t, err)
	assert.Len(t, elems, 2)
}

func TestBoolEncodesAsIntRoundTrip(t *testing.T) {
	v := Bool(true, dialect.SQLite)
	n, err := v.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	back := Int(1, dialect.SQLite)
	b, err := back.Boolean()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestLiteralNeverUsedAsExecutableSQLDirectly(t *testing.T) {
	assert.Equal(t, "NULL", Null(dialect.SQLite).Literal())
	assert.Equal(t, `"hi"`, Text("hi", dialect.SQLite).Literal())
	assert.Equal(t, "TRUE", Bool(true, dialect.Postgres).Literal())
}
