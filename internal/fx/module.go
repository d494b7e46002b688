package fx

import "go.uber.org/fx"

// AppModule reúne todos os módulos da aplicação
var AppModule = fx.Options(
	ConfigModule,
	InfrastructureModule,
	CacheModule,
	DomainModule,
	MiddlewareModule,
	RoutesModule,
	JobsModule,
	ServerModule,
)
