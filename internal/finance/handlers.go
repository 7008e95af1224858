package finance

import (
	"net/http"

	"calc-api/internal/handlers"
	"calc-api/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("finance")

// AmortizationRequest is the JSON body for POST /finance/amortization.
type AmortizationRequest struct {
	LoanInput
	SummaryOnly bool `json:"summaryOnly"`
}

// Amortization handles POST /finance/amortization.
func Amortization(w http.ResponseWriter, r *http.Request) {
	const opName = "amortization"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "finance.amortization",
		trace.WithAttributes(attribute.String("request.id", observability.RequestIDFromContext(ctx))),
	)
	defer span.End()

	var req AmortizationRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	schedule, err := Amortize(req.LoanInput)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}
	if req.SummaryOnly {
		schedule.Payments = nil
	}

	calcCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))
	span.SetAttributes(
		attribute.Float64("finance.principal", req.Principal),
		attribute.Int("finance.term_months", req.TermMonths),
		attribute.Int("finance.months", schedule.Months),
		attribute.Float64("finance.monthly_payment", schedule.MonthlyPayment),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("amortization computed",
		zap.Float64("principal", req.Principal),
		zap.Float64("annual_rate", req.AnnualRate),
		zap.Int("term_months", req.TermMonths),
		zap.Int("months", schedule.Months),
		zap.Float64("monthly_payment", schedule.MonthlyPayment),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, schedule)
}

// Compound handles POST /finance/compound.
func Compound(w http.ResponseWriter, r *http.Request) {
	const opName = "compound"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "finance.compound",
		trace.WithAttributes(attribute.String("request.id", observability.RequestIDFromContext(ctx))),
	)
	defer span.End()

	var in GrowthInput
	if err := handlers.DecodeJSON(w, r, &in); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	growth, err := CompoundGrowth(in)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	calcCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))
	span.SetAttributes(
		attribute.Int("finance.years", in.Years),
		attribute.Float64("finance.final_balance", growth.FinalBalance),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("compound growth computed",
		zap.Int("years", in.Years),
		zap.String("compounding", growth.Compounding),
		zap.Float64("final_balance", growth.FinalBalance),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, growth)
}
