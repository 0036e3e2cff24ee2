package sequence_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ledger-pro/internal/application/sequence"
	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/testutil"
)

func newGenerator(t *testing.T) (*sequence.GeneratorUseCase, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	return sequence.NewGeneratorUseCase(testutil.NewTxRunner(store), store.Repos().Sequences), store
}

func TestNextFormatoConPrefijo(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqIssueVouchers, 2025, sequence.ConfigInput{
		Prefix: "ISS", MinValue: 1, MaxValue: 99999, IncrementBy: 1,
	})
	require.NoError(t, err)

	n1, err := uc.Next(ctx, entity.SeqIssueVouchers, 2025)
	require.NoError(t, err)
	assert.Equal(t, "ISS2025/00001", n1)

	n2, err := uc.Next(ctx, entity.SeqIssueVouchers, 2025)
	require.NoError(t, err)
	assert.Equal(t, "ISS2025/00002", n2)
}

func TestNextFormatoSinPrefijo(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqPayments, 2025, sequence.ConfigInput{
		MinValue: 100, MaxValue: 999, IncrementBy: 1,
	})
	require.NoError(t, err)

	n, err := uc.Next(ctx, entity.SeqPayments, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025/100", n)
}

func TestNextSinConfigurar(t *testing.T) {
	uc, _ := newGenerator(t)

	_, err := uc.Next(context.Background(), entity.SeqIssueVouchers, 2025)
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)

	_, err = uc.Peek(context.Background(), entity.SeqIssueVouchers, 2025)
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)
}

func TestPeekNoAvanza(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqIssueVouchers, 2025, sequence.ConfigInput{
		Prefix: "ISS", MinValue: 1, MaxValue: 100, IncrementBy: 1,
	})
	require.NoError(t, err)

	n, err := uc.Next(ctx, entity.SeqIssueVouchers, 2025)
	require.NoError(t, err)
	peeked, err := uc.Peek(ctx, entity.SeqIssueVouchers, 2025)
	require.NoError(t, err)
	assert.Equal(t, n, peeked)

	again, err := uc.Peek(ctx, entity.SeqIssueVouchers, 2025)
	require.NoError(t, err)
	assert.Equal(t, peeked, again)
}

// Rango completo de vales de devolución: [100001, 125000] son exactamente
// 25000 números; la llamada 25001 agota la secuencia.
func TestAgotamientoDelRangoDeDevoluciones(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqReturnVouchers, 2025, sequence.ConfigInput{
		Prefix: "RET", MinValue: 100001, MaxValue: 125000, IncrementBy: 1,
	})
	require.NoError(t, err)

	first, err := uc.Next(ctx, entity.SeqReturnVouchers, 2025)
	require.NoError(t, err)
	assert.Equal(t, "RET2025/100001", first)

	var last string
	for i := 0; i < 24999; i++ {
		last, err = uc.Next(ctx, entity.SeqReturnVouchers, 2025)
		require.NoError(t, err)
	}
	assert.Equal(t, "RET2025/125000", last)

	_, err = uc.Next(ctx, entity.SeqReturnVouchers, 2025)
	require.ErrorIs(t, err, domain.ErrSequenceExhausted)

	var exhausted *domain.SequenceExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, entity.SeqReturnVouchers, exhausted.EntityType)
	assert.Equal(t, int64(125000), exhausted.MaxValue)

	// Agotada sigue agotada.
	_, err = uc.Next(ctx, entity.SeqReturnVouchers, 2025)
	assert.ErrorIs(t, err, domain.ErrSequenceExhausted)
}

// Llamadas concurrentes nunca reciben el mismo número.
func TestConcurrenciaSinDuplicados(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqIssueVouchers, 2025, sequence.ConfigInput{
		Prefix: "ISS", MinValue: 1, MaxValue: 10000, IncrementBy: 1,
	})
	require.NoError(t, err)

	const callers = 200
	results := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := uc.Next(ctx, entity.SeqIssueVouchers, 2025)
			if err == nil {
				results <- n
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for n := range results {
		require.False(t, seen[n], "número duplicado: %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, callers)
}

func TestConfigureValidaRango(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqIssueVouchers, 2025, sequence.ConfigInput{MinValue: 10, MaxValue: 5, IncrementBy: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Configure(ctx, entity.SeqIssueVouchers, 2025, sequence.ConfigInput{MinValue: 1, MaxValue: 10, IncrementBy: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestReconfigurarNoRetrocedeLaNumeracion(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqIssueVouchers, 2025, sequence.ConfigInput{
		Prefix: "ISS", MinValue: 1, MaxValue: 100, IncrementBy: 1,
	})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = uc.Next(ctx, entity.SeqIssueVouchers, 2025)
		require.NoError(t, err)
	}

	// Ampliar el rango no reinicia el contador.
	seq, err := uc.Configure(ctx, entity.SeqIssueVouchers, 2025, sequence.ConfigInput{
		Prefix: "ISS", MinValue: 1, MaxValue: 1000, IncrementBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), seq.LastNumber)

	n, err := uc.Next(ctx, entity.SeqIssueVouchers, 2025)
	require.NoError(t, err)
	assert.Equal(t, "ISS2025/00006", n)
}

func TestRolloverYear(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqIssueVouchers, 2025, sequence.ConfigInput{
		Prefix: "ISS", MinValue: 1, MaxValue: 99999, IncrementBy: 1, AutoReset: true,
	})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = uc.Next(ctx, entity.SeqIssueVouchers, 2025)
		require.NoError(t, err)
	}

	seq, err := uc.RolloverYear(ctx, entity.SeqIssueVouchers, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, seq.Year)
	assert.Equal(t, int64(0), seq.LastNumber)

	n, err := uc.Next(ctx, entity.SeqIssueVouchers, 2026)
	require.NoError(t, err)
	assert.Equal(t, "ISS2026/00001", n)

	// El año viejo sigue donde estaba.
	peeked, err := uc.Peek(ctx, entity.SeqIssueVouchers, 2025)
	require.NoError(t, err)
	assert.Equal(t, "ISS2025/00003", peeked)

	// Idempotente.
	again, err := uc.RolloverYear(ctx, entity.SeqIssueVouchers, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.LastNumber)
}

func TestRolloverSinAutoReset(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	_, err := uc.Configure(ctx, entity.SeqPayments, 2025, sequence.ConfigInput{
		MinValue: 1, MaxValue: 100, IncrementBy: 1, AutoReset: false,
	})
	require.NoError(t, err)

	_, err = uc.RolloverYear(ctx, entity.SeqPayments, 2026)
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)
}

func TestAñosIndependientes(t *testing.T) {
	uc, _ := newGenerator(t)
	ctx := context.Background()

	for _, year := range []int{2024, 2025} {
		_, err := uc.Configure(ctx, entity.SeqIssueVouchers, year, sequence.ConfigInput{
			Prefix: "ISS", MinValue: 1, MaxValue: 100, IncrementBy: 1,
		})
		require.NoError(t, err)
	}

	n24, err := uc.Next(ctx, entity.SeqIssueVouchers, 2024)
	require.NoError(t, err)
	n25, err := uc.Next(ctx, entity.SeqIssueVouchers, 2025)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ISS%d/00001", 2024), n24)
	assert.Equal(t, fmt.Sprintf("ISS%d/00001", 2025), n25)
}
