package httpx

import (
	"github.com/jcmexdev/shop-services/internal/order-service/domain"
)

func linesFromRequest(items []OrderItemCreate) []domain.Line {
	out := make([]domain.Line, len(items))
	for i, it := range items {
		out[i] = domain.Line{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		}
	}
	return out
}

func orderToResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		OrderID:         o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		TotalAmount:     o.TotalAmount,
		OrderDate:       o.OrderDate,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           itemsToResponse(o.Items),
	}
}

func ordersToResponse(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = orderToResponse(o)
	}
	return out
}

func itemsToResponse(items []domain.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, len(items))
	for i, it := range items {
		out[i] = OrderItemResponse{
			OrderItemID:     it.ID,
			OrderID:         it.OrderID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
			ItemTotal:       it.ItemTotal,
			CreatedAt:       it.CreatedAt,
			UpdatedAt:       it.UpdatedAt,
		}
	}
	return out
}

func statusPtr(s *string) *domain.Status {
	if s == nil {
		return nil
	}
	st := domain.Status(*s)
	return &st
}
