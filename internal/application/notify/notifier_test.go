package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/application/notify"
)

func TestNotify_LaMasRecienteGana(t *testing.T) {
	n := notify.New(time.Minute)
	defer n.Close()

	n.Notify("primera", notify.SeverityInfo)
	second := n.Notify("segunda", notify.SeverityError)

	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)
	assert.Equal(t, "segunda", cur.Message)
	assert.Equal(t, notify.SeverityError, cur.Severity)
}

func TestNotify_SeveridadPorDefectoEsSuccess(t *testing.T) {
	n := notify.New(time.Minute)
	defer n.Close()

	note := n.Notify("ok", "")
	assert.Equal(t, notify.SeveritySuccess, note.Severity)
}

func TestNotify_AutoLimpiezaTrasTimeout(t *testing.T) {
	n := notify.New(20 * time.Millisecond)
	defer n.Close()

	n.Notify("temporal", notify.SeverityWarning)
	_, ok := n.Current()
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

// El timer de una notificación reemplazada no debe borrar a la nueva.
func TestNotify_TimerViejoNoBorraLaNueva(t *testing.T) {
	n := notify.New(200 * time.Millisecond)
	defer n.Close()

	n.Notify("vieja", notify.SeverityInfo)
	time.Sleep(120 * time.Millisecond)
	n.Notify("nueva", notify.SeverityInfo)
	time.Sleep(120 * time.Millisecond)

	cur, ok := n.Current()
	require.True(t, ok, "la nueva aún no vence")
	assert.Equal(t, "nueva", cur.Message)
}

func TestNotify_Dismiss(t *testing.T) {
	n := notify.New(time.Minute)
	defer n.Close()

	n.Notify("x", notify.SeverityInfo)
	n.Dismiss()
	_, ok := n.Current()
	assert.False(t, ok)
}

func TestNotify_CloseDescartaPosteriores(t *testing.T) {
	n := notify.New(time.Minute)
	n.Close()
	n.Notify("tarde", notify.SeverityInfo)
	_, ok := n.Current()
	assert.False(t, ok)
}
