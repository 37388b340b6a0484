// Package modelfit provides the closed-form model solvers driven by the
// ransac package, and the Find and Fit entry points built on them.
//
// Find* functions fit a model robustly: they pair the two point sets, run
// RANSAC with the given configuration and sampler, and return the model
// together with its inlier set. Fit* functions compute the least-squares
// model over every correspondence without rejecting outliers.
//
// Solvers:
//
//	Translation2D  sample size 1  mean displacement
//	Rigid2D        sample size 2  Procrustes (SVD of the cross-covariance)
//	Rigid3D        sample size 3  Procrustes (SVD of the cross-covariance)
//	Affine2D       sample size 3  exact solve, QR least squares for more points
//	Homography2D   sample size 4  normalized direct linear transform
package modelfit
