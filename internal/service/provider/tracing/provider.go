package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/service/provider"
)

// Provider 为供应商实现添加链路追踪的装饰器
type Provider struct {
	provider provider.Provider
	tracer   trace.Tracer
	name     string
}

func (p *Provider) Send(ctx context.Context, recipient string, content domain.MessageContent) (string, error) {
	ctx, span := p.tracer.Start(ctx, "Provider.Send",
		trace.WithAttributes(
			attribute.String("provider.name", p.name),
			attribute.String("message.contentType", string(content.Type)),
			attribute.String("message.templateName", content.TemplateName),
		))
	defer span.End()

	id, err := p.provider.Send(ctx, recipient, content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("message.errorClass", errs.Class(err)))
		return id, err
	}
	span.SetAttributes(attribute.String("message.providerID", id))
	return id, nil
}

// NewProvider 创建一个新的带有链路追踪的供应商
// name 传入发送号码的名字
func NewProvider(p provider.Provider, name string) *Provider {
	return &Provider{
		provider: p,
		name:     name,
		tracer:   otel.Tracer("campaign-dispatcher/provider"),
	}
}
