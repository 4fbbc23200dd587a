package solver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/beka-birhanu/vinom-sweeper/game/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constraintSet() board.ConstraintSet {
	mines := 2
	return board.ConstraintSet{
		Rules:      []board.Rule{{NumMines: 1, Cells: []string{"0-0", "0-1"}}},
		TotalCells: 9,
		TotalMines: &mines,
	}
}

func solverServer(t *testing.T, handler func(attempt int32, cs board.ConstraintSet, w http.ResponseWriter)) (*httptest.Server, *int32) {
	t.Helper()
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		var cs board.ConstraintSet
		if err := json.NewDecoder(r.Body).Decode(&cs); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		handler(n, cs, w)
	}))
	t.Cleanup(srv.Close)
	return srv, &attempts
}

func TestHTTPClient(t *testing.T) {
	t.Run("posts the constraint set", func(t *testing.T) {
		srv, attempts := solverServer(t, func(_ int32, cs board.ConstraintSet, w http.ResponseWriter) {
			assert.Equal(t, 9, cs.TotalCells)
			assert.Len(t, cs.Rules, 1)
			_, _ = w.Write([]byte(`{"solution": {"0-0": 0.5, "0-1": 0.5, "_other": 0.14}, "processing_time": 0.01}`))
		})
		c, err := NewHTTPClient(srv.URL, nil)
		require.NoError(t, err)

		sol, err := c.Solve(context.Background(), constraintSet())
		require.NoError(t, err)
		assert.Equal(t, int32(1), *attempts)
		p, ok := sol.Probability("2-2")
		assert.True(t, ok)
		assert.Equal(t, 0.14, p)
	})

	t.Run("server errors are retried", func(t *testing.T) {
		srv, attempts := solverServer(t, func(n int32, _ board.ConstraintSet, w http.ResponseWriter) {
			if n < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"solution": {"0-0": 1, "0-1": 0}}`))
		})
		c, err := NewHTTPClient(srv.URL, nil, WithRetry(3, time.Millisecond))
		require.NoError(t, err)

		sol, err := c.Solve(context.Background(), constraintSet())
		require.NoError(t, err)
		assert.Equal(t, int32(3), *attempts)
		assert.Equal(t, []string{"0-0"}, sol.CertainMines())
	})

	t.Run("inconsistent rules are not retried", func(t *testing.T) {
		srv, attempts := solverServer(t, func(_ int32, _ board.ConstraintSet, w http.ResponseWriter) {
			_, _ = w.Write([]byte(`{"error": "no consistent configuration"}`))
		})
		c, err := NewHTTPClient(srv.URL, nil, WithRetry(3, time.Millisecond))
		require.NoError(t, err)

		sol, err := c.Solve(context.Background(), constraintSet())
		assert.ErrorIs(t, err, ErrInconsistent)
		require.NotNil(t, sol)
		assert.Equal(t, "no consistent configuration", sol.Error)
		assert.Equal(t, int32(1), *attempts)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		srv, attempts := solverServer(t, func(_ int32, _ board.ConstraintSet, w http.ResponseWriter) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		})
		c, err := NewHTTPClient(srv.URL, nil, WithRetry(3, time.Millisecond))
		require.NoError(t, err)

		_, err = c.Solve(context.Background(), constraintSet())
		assert.Error(t, err)
		assert.Equal(t, int32(1), *attempts)
	})

	t.Run("garbage", func(t *testing.T) {
		srv, _ := solverServer(t, func(_ int32, _ board.ConstraintSet, w http.ResponseWriter) {
			_, _ = w.Write([]byte(`not json`))
		})
		c, err := NewHTTPClient(srv.URL, nil, WithRetry(1, time.Millisecond))
		require.NoError(t, err)

		_, err = c.Solve(context.Background(), constraintSet())
		assert.ErrorIs(t, err, ErrBadResponse)
	})

	_, err := NewHTTPClient("", nil)
	assert.Error(t, err)
}

type fakeInvoker struct {
	input *lambda.InvokeInput
	out   *lambda.InvokeOutput
	err   error
}

func (f *fakeInvoker) Invoke(_ context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.input = in
	return f.out, f.err
}

func TestLambdaClient(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		inv := &fakeInvoker{out: &lambda.InvokeOutput{Payload: []byte(`{"solution": {"0-0": 0.25}}`)}}
		c := NewLambdaClientWithInvoker(inv, "minesolver")

		sol, err := c.Solve(context.Background(), constraintSet())
		require.NoError(t, err)
		assert.Equal(t, 0.25, sol.Probabilities["0-0"])
		assert.Equal(t, "minesolver", aws.ToString(inv.input.FunctionName))

		var sent board.ConstraintSet
		require.NoError(t, json.Unmarshal(inv.input.Payload, &sent))
		assert.Equal(t, 2, *sent.TotalMines)
	})

	t.Run("function error", func(t *testing.T) {
		inv := &fakeInvoker{out: &lambda.InvokeOutput{FunctionError: aws.String("Unhandled"), Payload: []byte(`{}`)}}
		_, err := NewLambdaClientWithInvoker(inv, "minesolver").Solve(context.Background(), constraintSet())
		assert.Error(t, err)
	})

	t.Run("inconsistent", func(t *testing.T) {
		inv := &fakeInvoker{out: &lambda.InvokeOutput{Payload: []byte(`{"error": "contradiction"}`)}}
		_, err := NewLambdaClientWithInvoker(inv, "minesolver").Solve(context.Background(), constraintSet())
		assert.ErrorIs(t, err, ErrInconsistent)
	})

	t.Run("transport", func(t *testing.T) {
		inv := &fakeInvoker{err: errors.New("throttled")}
		_, err := NewLambdaClientWithInvoker(inv, "minesolver").Solve(context.Background(), constraintSet())
		assert.Error(t, err)
	})
}
