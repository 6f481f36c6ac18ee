package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/audit --output domain/audit --outpkg auditmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/catalog --output domain/catalog --outpkg catalogmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/match --output domain/match --outpkg matchmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/patch --output domain/patch --outpkg patchmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/summoner --output domain/summoner --outpkg summonermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RankRepository --dir ../domain/summoner --output domain/summoner --outpkg summonermock --filename rank_repository_mock.go
