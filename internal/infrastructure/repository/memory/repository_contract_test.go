package memory

import (
	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
)

var _ match.Repository = (*MatchRepository)(nil)
var _ mymatch.Repository = (*MyMatchRepository)(nil)
var _ player.Repository = (*PlayerRepository)(nil)
var _ contest.Repository = (*ContestRepository)(nil)
var _ fantasy.Repository = (*TeamRepository)(nil)
