package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

func TestBestAnnualSavings(t *testing.T) {
	r := &model.Result{
		PassThroughRows: []model.PassThroughRow{
			{PassThrough: 0.3, AnnualSavings: 120},
			{PassThrough: 1.0, AnnualSavings: 400},
			{PassThrough: 0.5, AnnualSavings: 200},
		},
	}
	assert.Equal(t, 400.0, r.BestAnnualSavings())
}

func TestBestAnnualSavings_Empty(t *testing.T) {
	r := &model.Result{}
	assert.Equal(t, 0.0, r.BestAnnualSavings())
}

func TestBestAnnualSavings_Negative(t *testing.T) {
	r := &model.Result{
		PassThroughRows: []model.PassThroughRow{
			{PassThrough: 0.5, AnnualSavings: -30},
			{PassThrough: 1.0, AnnualSavings: -10},
		},
	}
	assert.Equal(t, -10.0, r.BestAnnualSavings())
}
