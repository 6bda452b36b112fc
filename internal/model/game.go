package model

import (
	"strings"
	"time"

	"gamehub/pkg/apperr"
)

// Genre 游戏类型（封闭枚举）
type Genre string

const (
	GenreAction     Genre = "ACTION"
	GenreAdventure  Genre = "ADVENTURE"
	GenreRPG        Genre = "RPG"
	GenreStrategy   Genre = "STRATEGY"
	GenreSimulation Genre = "SIMULATION"
	GenreSports     Genre = "SPORTS"
	GenreRacing     Genre = "RACING"
	GenrePuzzle     Genre = "PUZZLE"
	GenreHorror     Genre = "HORROR"
	GenreShooter    Genre = "SHOOTER"
	GenrePlatformer Genre = "PLATFORMER"
	GenreFighting   Genre = "FIGHTING"
)

var allGenres = map[Genre]struct{}{
	GenreAction: {}, GenreAdventure: {}, GenreRPG: {}, GenreStrategy: {},
	GenreSimulation: {}, GenreSports: {}, GenreRacing: {}, GenrePuzzle: {},
	GenreHorror: {}, GenreShooter: {}, GenrePlatformer: {}, GenreFighting: {},
}

// ParseGenre 解析游戏类型，未知类型返回 InvalidArgument
func ParseGenre(name string) (Genre, error) {
	g := Genre(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := allGenres[g]; !ok {
		return "", apperr.InvalidArgument("unknown genre %q", name)
	}
	return g, nil
}

// GameGenre 游戏-类型关联表

type GameGenre struct {
	GameID uint  `gorm:"primaryKey;autoIncrement:false"`
	Genre  Genre `gorm:"primaryKey;type:varchar(32);index"`
}

func (GameGenre) TableName() string { return "game_genre" }

// Game 游戏模型
// Price 为空表示免费/未定价，非空时必须大于0
// 标题唯一性在业务层按大小写敏感校验

type Game struct {
	ID          uint        `gorm:"primaryKey"`
	Title       string      `gorm:"type:varchar(255);not null;index;comment:标题"`
	Description string      `gorm:"type:text;comment:简介"`
	Genres      []GameGenre `gorm:"foreignKey:GameID"`
	ReleaseDate *time.Time  `gorm:"comment:发行日期"`
	Developer   string      `gorm:"type:varchar(255);not null;comment:开发商"`
	Price       *float64    `gorm:"comment:价格"`
	Reviews     []Review    `gorm:"foreignKey:GameID"`
	CreatedAt   time.Time   `gorm:"comment:创建时间"`
	UpdatedAt   time.Time   `gorm:"comment:更新时间"`
}

func (Game) TableName() string { return "game" }

// GenreList 返回类型列表
func (g *Game) GenreList() []Genre {
	out := make([]Genre, 0, len(g.Genres))
	for _, gg := range g.Genres {
		out = append(out, gg.Genre)
	}
	return out
}

// SetGenres 设置类型（去重），GameID 在保存时由 GORM 回填
func (g *Game) SetGenres(genres []Genre) {
	seen := make(map[Genre]struct{}, len(genres))
	g.Genres = g.Genres[:0]
	for _, genre := range genres {
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		g.Genres = append(g.Genres, GameGenre{GameID: g.ID, Genre: genre})
	}
}
