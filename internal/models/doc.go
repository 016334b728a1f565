// Package models contains the built-in agent-based models. Each model
// implements abm.Model and is constructed through the Registry so
// frontends can build any model from a name and a parameter set.
package models
