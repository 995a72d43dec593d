package orders

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

// salesAlertThreshold ventas del día (COP) a partir de las cuales se muestra el aviso de buen día.
var salesAlertThreshold = decimal.NewFromInt(100000)

// paidStatuses estados que cuentan como venta cobrada.
var paidStatuses = []entity.OrderStatus{
	entity.OrderConfirmado,
	entity.OrderPreparando,
	entity.OrderEnviado,
	entity.OrderEntregado,
}

var priorityRank = map[string]int{"critica": 1, "alta": 2, "media": 3, "baja": 4}

var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// GetAlerts avisos del panel: pedidos pendientes de las últimas 24h y ventas del día (UTC).
func (uc *UseCase) GetAlerts(ctx context.Context) (*dto.AlertsResponse, error) {
	now := uc.now()
	alerts := make([]dto.Alert, 0, 2)

	pending, err := uc.orders.CountByStatusSince(ctx, entity.OrderPendiente, now.Add(-24*time.Hour))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "contar pedidos pendientes", Err: err}
	}
	if pending > 0 {
		alerts = append(alerts, dto.Alert{
			ID:       "pedidos-pendientes",
			Type:     "info",
			Title:    "Pedidos Pendientes",
			Message:  copPrinter.Sprintf("%d pedidos pendientes de las últimas 24h", pending),
			Icon:     "📋",
			Action:   "/admin/pedidos",
			Priority: "media",
		})
	}

	startOfDay := now.UTC().Truncate(24 * time.Hour)
	sales, err := uc.orders.SumTotalByStatusSince(ctx, paidStatuses, startOfDay)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "sumar ventas del día", Err: err}
	}
	if sales.GreaterThan(salesAlertThreshold) {
		alerts = append(alerts, dto.Alert{
			ID:       "ventas-exitosas",
			Type:     "success",
			Title:    "¡Excelente día de ventas!",
			Message:  "Has vendido " + FormatCOP(sales) + " hoy",
			Icon:     "🎉",
			Action:   "/admin/reportes",
			Priority: "baja",
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return rank(alerts[i].Priority) < rank(alerts[j].Priority)
	})
	uc.log.Debug().Int("pending", pending).Str("sales", sales.String()).Msg("alertas calculadas")

	return &dto.AlertsResponse{Alerts: alerts, Total: len(alerts), Timestamp: now}, nil
}

func rank(priority string) int {
	if r, ok := priorityRank[priority]; ok {
		return r
	}
	return len(priorityRank) + 1
}

// FormatCOP formatea pesos colombianos sin decimales con separadores es-CO (ej. "$ 150.000").
func FormatCOP(amount decimal.Decimal) string {
	f, _ := amount.Round(0).Float64()
	return copPrinter.Sprintf("$ %v", number.Decimal(f, number.MaxFractionDigits(0)))
}
