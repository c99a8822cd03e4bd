package database

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaoyan-advisor/internal/common/config"
)

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestElasticsearch_IndexExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		switch r.URL.Path {
		case "/school_majors":
			w.WriteHeader(http.StatusOK)
		case "/":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	ok, err := client.IndexExists(context.Background(), "school_majors")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.IndexExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, client.Ping(context.Background()))
}

func TestPostgres_DefaultsSSLMode(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{Host: "localhost", Port: 5432, Database: "kaoyan", User: "u"})
	require.NoError(t, err)
	defer client.Close()

	assert.NotNil(t, client.DB)
}

func TestConnectPostgres_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := 0; i < 3; i++ {
		client, err := ConnectPostgres(ctx, config.PostgresConfig{Host: "127.0.0.1", Port: port, Database: "kaoyan", User: "u"})
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "failed to ping postgres")
	}
}
