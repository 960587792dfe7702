package model

const latestParametersSQL = `
SELECT id, weights, bias, training_mean, training_std, trained_at
FROM model_params
ORDER BY trained_at DESC
LIMIT 1
`

const countParametersSQL = `
SELECT COUNT(*)
FROM model_params
`

const createParametersSQL = `
INSERT INTO model_params (
    weights, bias, training_mean, training_std, trained_at
) VALUES (?, ?, ?, ?, ?)
RETURNING id
`
