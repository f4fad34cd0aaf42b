package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	orderModel "netshop-backend/internal/domains/order/model"
	orderService "netshop-backend/internal/domains/order/service"
	"netshop-backend/internal/domains/payment/gateway/momo"
	"netshop-backend/internal/domains/payment/model"
	"netshop-backend/pkg/database"
	"netshop-backend/pkg/logger"
)

// reconcileOutcome là kết quả sau khi xử lý một payment update
type reconcileOutcome struct {
	Order   *orderModel.Order
	Outcome string
}

// =====================================================
// IPN (AUTHORITATIVE)
// =====================================================

func (s *paymentService) HandleIPN(ctx context.Context, ipn momo.IPN) error {
	upd, err := s.gateway.VerifyIPN(ipn)
	if err != nil {
		if errors.Is(err, momo.ErrInvalidSignature) {
			invalid := false
			msg := "invalid signature"
			s.writeLog(ctx, &model.PaymentLog{
				GatewayOrderID: ipn.OrderID,
				Source:         model.SourceIPN,
				ResultCode:     &ipn.ResultCode,
				Amount:         momoAmount(ipn.Amount),
				SignatureValid: &invalid,
				Outcome:        model.OutcomeRejected,
				Message:        &msg,
				Payload:        ipn,
			})
			logger.Warn("Rejected MoMo IPN with invalid signature", map[string]interface{}{
				"gateway_order_id": ipn.OrderID,
				"result_code":      ipn.ResultCode,
			})
			return model.NewInvalidSignatureError(err)
		}
		return model.NewInvalidCallbackError(err)
	}

	_, err = s.applyAuthoritative(ctx, upd, ipn)
	return err
}

// =====================================================
// RETURN URL (BEST-EFFORT)
// =====================================================

// HandleReturn luôn trả ReturnResult để handler redirect, kể cả khi có lỗi
func (s *paymentService) HandleReturn(ctx context.Context, params momo.ReturnParams) (*model.ReturnResult, error) {
	res := &model.ReturnResult{
		OrderNumber: params.OrderID,
		Status:      model.ReturnStatusError,
		Message:     params.Message,
	}

	upd, err := s.gateway.VerifyReturn(params)
	if err != nil {
		if errors.Is(err, momo.ErrInvalidSignature) {
			invalid := false
			msg := "invalid signature"
			s.writeLog(ctx, &model.PaymentLog{
				GatewayOrderID: params.OrderID,
				Source:         model.SourceReturn,
				ResultCode:     &params.ResultCode,
				Amount:         momoAmount(params.Amount),
				SignatureValid: &invalid,
				Outcome:        model.OutcomeRejected,
				Message:        &msg,
				Payload:        params,
			})
			logger.Warn("Rejected MoMo return with invalid signature", map[string]interface{}{
				"gateway_order_id": params.OrderID,
				"result_code":      params.ResultCode,
			})
			return res, model.NewInvalidSignatureError(err)
		}
		return res, model.NewInvalidCallbackError(err)
	}
	res.OrderNumber = upd.Result.GatewayOrderID.OrderNumber

	out, err := s.applyBestEffort(ctx, upd, params)
	if err != nil {
		return res, err
	}

	// Status lấy theo order sau khi xử lý, không tin query string
	o := out.Order
	switch {
	case o.IsPaid():
		res.Status = model.ReturnStatusSuccess
		if o.GatewayTransactionID != nil {
			res.TransID = *o.GatewayTransactionID
		}
	case !upd.Result.IsFinal():
		res.Status = model.ReturnStatusPending
	default:
		res.Status = model.ReturnStatusFailed
	}
	if res.Message == "" {
		res.Message = momo.GetResultMessage(upd.Result.ResultCode)
	}

	return res, nil
}

// =====================================================
// PERIODIC RECONCILIATION
// =====================================================

func (s *paymentService) ReconcilePending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	orders, err := s.orderRepo.ListAwaitingPayment(ctx, orderModel.PaymentMethodMomo, s.now().Add(-olderThan), limit)
	if err != nil {
		return 0, err
	}

	applied := 0
	for i := range orders {
		o := &orders[i]
		if o.GatewayOrderID == nil {
			continue
		}

		fields := map[string]interface{}{
			"order_id":         o.ID,
			"gateway_order_id": *o.GatewayOrderID,
		}

		id, err := momo.ParseGatewayOrderID(*o.GatewayOrderID)
		if err != nil {
			fields["error"] = err.Error()
			logger.Warn("Skipping order with malformed gateway order id", fields)
			continue
		}

		upd, err := s.gateway.QueryStatus(ctx, id)
		if err != nil {
			fields["error"] = err.Error()
			logger.Warn("MoMo query failed during reconciliation", fields)
			continue
		}

		out, err := s.applyAuthoritative(ctx, upd, upd.Result)
		if err != nil {
			fields["error"] = err.Error()
			logger.Warn("Reconciliation update rejected", fields)
			continue
		}
		if out.Outcome == model.OutcomeApplied {
			applied++
		}
	}

	logger.Info("Pending MoMo payments reconciled", map[string]interface{}{
		"checked": len(orders),
		"applied": applied,
	})
	return applied, nil
}

// =====================================================
// APPLY
// =====================================================

func (s *paymentService) applyAuthoritative(ctx context.Context, upd *momo.AuthoritativePaymentUpdate, payload interface{}) (*reconcileOutcome, error) {
	var signatureValid *bool
	if upd.Source == momo.SourceIPN {
		valid := true
		signatureValid = &valid
	}
	return s.reconcile(ctx, upd.Result, string(upd.Source), true, signatureValid, payload)
}

func (s *paymentService) applyBestEffort(ctx context.Context, upd *momo.BestEffortPaymentUpdate, payload interface{}) (*reconcileOutcome, error) {
	var signatureValid *bool
	if upd.Signed {
		signatureValid = &upd.Signed
	}
	return s.reconcile(ctx, upd.Result, model.SourceReturn, false, signatureValid, payload)
}

// reconcile lock order theo order number, quyết định và ghi payment log trong cùng transaction.
// Business rejection (order đã đóng, sai số tiền) vẫn commit log rồi mới trả lỗi.
func (s *paymentService) reconcile(ctx context.Context, result momo.PaymentResult, source string, authoritative bool, signatureValid *bool, payload interface{}) (*reconcileOutcome, error) {
	out := &reconcileOutcome{}
	var rejection error

	err := database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetByNumberForUpdateWithTx(ctx, tx, result.GatewayOrderID.OrderNumber)
		if err != nil {
			return err
		}
		out.Order = order

		outcome, err := s.applyResult(ctx, tx, order, result, authoritative)
		var payErr *model.PaymentError
		if errors.As(err, &payErr) {
			rejection = err
			outcome = model.OutcomeRejected
		} else if err != nil {
			return err
		}
		out.Outcome = outcome

		entry := &model.PaymentLog{
			OrderID:        &order.ID,
			Gateway:        model.GatewayMomo,
			GatewayOrderID: result.GatewayOrderID.String(),
			Source:         source,
			ResultCode:     &result.ResultCode,
			Amount:         result.Amount,
			SignatureValid: signatureValid,
			Outcome:        outcome,
			Payload:        payload,
		}
		if result.TransID != "" {
			entry.TransID = &result.TransID
		}
		if rejection != nil {
			msg := rejection.Error()
			entry.Message = &msg
		} else if result.Message != "" {
			entry.Message = &result.Message
		}
		return s.logRepo.CreateWithTx(ctx, tx, entry)
	})
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return nil, model.NewPaymentError(model.ErrCodePaymentNotFound,
				fmt.Sprintf("Order %s not found", result.GatewayOrderID.OrderNumber), err)
		}
		return nil, err
	}

	logger.Info("MoMo payment update processed", map[string]interface{}{
		"order_id":         out.Order.ID,
		"gateway_order_id": result.GatewayOrderID.String(),
		"source":           source,
		"result_code":      result.ResultCode,
		"outcome":          out.Outcome,
	})

	if out.Outcome == model.OutcomeApplied {
		s.invalidate(ctx, out.Order.ID)
		if out.Order.IsPaid() {
			s.enqueueSuccessEmail(ctx, out.Order)
		}
	}

	return out, rejection
}

// applyResult áp dụng result lên order đã lock và trả outcome
func (s *paymentService) applyResult(ctx context.Context, tx pgx.Tx, order *orderModel.Order, result momo.PaymentResult, authoritative bool) (string, error) {
	// Idempotency: IPN retry hoặc IPN + return cùng tới
	if order.IsPaid() {
		return model.OutcomeAlreadyProcessed, nil
	}

	if !authoritative {
		// Redirect chỉ được nói về attempt đang chờ của order
		gid := result.GatewayOrderID.String()
		if order.GatewayOrderID == nil || *order.GatewayOrderID != gid {
			return "", model.NewAttemptMismatchError(order.OrderNumber, gid)
		}
		landed, err := s.logRepo.HasAuthoritativeWithTx(ctx, tx, order.ID)
		if err != nil {
			return "", err
		}
		if landed {
			return model.OutcomeSuperseded, nil
		}
	}

	if !result.IsFinal() {
		return model.OutcomePending, nil
	}

	if order.PaymentMethod != orderModel.PaymentMethodMomo {
		return "", model.NewPaymentError(model.ErrCodeInvalidGateway,
			fmt.Sprintf("Order %s is not paid via MoMo", order.OrderNumber), model.ErrInvalidGateway)
	}
	if order.StatusID.IsTerminal() {
		return "", model.NewOrderClosedError(order.OrderNumber)
	}

	gid := result.GatewayOrderID.String()
	stale := order.GatewayOrderID != nil && *order.GatewayOrderID != gid

	if !result.Succeeded() {
		// Attempt cũ fail không được ghi đè attempt mới đang chờ
		if stale {
			return model.OutcomeStale, nil
		}
		failed := orderModel.PaymentStatusFailed
		note := fmt.Sprintf("MoMo payment failed: %s (resultCode=%d)", result.Message, result.ResultCode)
		if err := s.machine.Record(ctx, tx, order, orderModel.OrderUpdate{PaymentStatus: &failed}, &note, nil); err != nil {
			return "", err
		}
		return model.OutcomeApplied, nil
	}

	if !result.Amount.Equal(order.TotalAmount) {
		return "", model.NewAmountMismatchError(order.TotalAmount.StringFixed(0), result.Amount.StringFixed(0))
	}

	paid := orderModel.PaymentStatusPaid
	now := s.now()
	upd := orderModel.OrderUpdate{
		PaymentStatus:  &paid,
		PaymentTime:    &now,
		GatewayOrderID: &gid,
	}
	if result.TransID != "" {
		transID := result.TransID
		upd.GatewayTransactionID = &transID
	}
	note := fmt.Sprintf("Payment received via MoMo (transId %s)", result.TransID)

	if order.StatusID == orderModel.StatusPending {
		err := s.machine.Apply(ctx, tx, order, orderService.Transition{
			To:    orderModel.StatusConfirmed,
			Note:  &note,
			Extra: upd,
		})
		if err != nil {
			return "", err
		}
		return model.OutcomeApplied, nil
	}

	// Admin đã confirm trước khi tiền về: chỉ ghi payment fields
	if err := s.machine.Record(ctx, tx, order, upd, &note, nil); err != nil {
		return "", err
	}
	return model.OutcomeApplied, nil
}

func momoAmount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
