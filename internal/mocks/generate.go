package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name FutureRepository --dir ../domain/pick --output domain/pick --outpkg pickmock --filename future_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PickSource --dir ../usecase --output usecase --outpkg usecasemock --filename pick_source_mock.go
