// Package game runs the lifecycle of a single game session.
//
// A Session starts in PhaseSetup, where a course and a roster are chosen.
// StartGame persists the game, its roster and one throw cell per
// (player, hole) seeded to the hole's par, and moves the session to
// PhaseActive. LoadGame enters PhaseActive directly from stored data.
//
// While active, only throw counts change. Course, roster and holes are fixed
// for the life of the game. There is no stored "completed" state: a game
// whose holes have all been visited is still an active game that can be
// resumed and edited.
package game
